package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sirupsen/logrus"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/input"
)

// LineWebhookHandler struct - Primary/Driving adapter for LINE webhook
type LineWebhookHandler struct {
	service       input.ConversationService
	channelSecret string
}

// NewLineWebhookHandler func - Creates new LINE webhook handler
func NewLineWebhookHandler(service input.ConversationService, channelSecret string) *LineWebhookHandler {
	return &LineWebhookHandler{
		service:       service,
		channelSecret: channelSecret,
	}
}

// HandleWebhook func - Verifies the signature and runs every chat event through
// the conversation service in delivery order. Failed events are logged and
// still acknowledged so LINE does not redeliver the batch.
func (h *LineWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	// Convert Fiber request to http.Request for LINE SDK
	httpReq, err := http.NewRequest(http.MethodPost, "/webhook/line", bytes.NewReader(c.Body()))
	if err != nil {
		logrus.Errorf("Failed to create http request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	c.Request().Header.VisitAll(func(key, value []byte) {
		httpReq.Header.Set(string(key), string(value))
	})

	cb, err := webhook.ParseRequest(h.channelSecret, httpReq)
	if err != nil {
		logrus.Errorf("Failed to parse webhook request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}

	handled := 0
	for _, event := range cb.Events {
		inbound, ok := convertToInboundEvent(event)
		if !ok {
			continue
		}
		if err := h.service.HandleEvent(c.UserContext(), inbound); err != nil {
			logrus.WithField("participant", inbound.ParticipantID).Errorf("Failed to handle LINE event: %v", err)
			continue
		}
		handled++
	}

	return c.Status(fiber.StatusOK).JSON(ResponseBody{
		Status: Success,
		Data:   WebhookResponse{Received: len(cb.Events), Handled: handled},
	})
}

// convertToInboundEvent - Converts a LINE message event. Other event types and
// message types other than text or image are skipped.
func convertToInboundEvent(event webhook.EventInterface) (domain.InboundEvent, bool) {
	msgEvent, ok := event.(webhook.MessageEvent)
	if !ok {
		logrus.Debugf("Skipping LINE event type: %T", event)
		return domain.InboundEvent{}, false
	}

	participantID, chatID := convertSource(msgEvent.Source)
	if participantID == "" {
		return domain.InboundEvent{}, false
	}

	inbound := domain.InboundEvent{
		ID:            msgEvent.WebhookEventId,
		Platform:      domain.PlatformLine,
		ParticipantID: participantID,
		ReplyTo: domain.ReplyTarget{
			Platform:   domain.PlatformLine,
			ChatID:     chatID,
			ReplyToken: msgEvent.ReplyToken,
		},
		ReceivedAt: time.UnixMilli(msgEvent.Timestamp),
	}

	switch msg := msgEvent.Message.(type) {
	case webhook.TextMessageContent:
		text := msg.Text
		inbound.Text = &text
	case webhook.ImageMessageContent:
		inbound.Attachment = &domain.Attachment{
			Kind:   domain.AttachmentPhoto,
			Photos: []domain.PhotoSize{{FileID: msg.Id}},
		}
	default:
		logrus.Debugf("Skipping LINE message type: %T", msg)
		return domain.InboundEvent{}, false
	}
	return inbound, true
}

// convertSource returns the participant and the chat replies are pushed to
func convertSource(source webhook.SourceInterface) (string, string) {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId, s.UserId
	case webhook.GroupSource:
		return s.UserId, s.GroupId
	case webhook.RoomSource:
		return s.UserId, s.RoomId
	default:
		return "", ""
	}
}
