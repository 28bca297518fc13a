package line

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// maxMessagesPerRequest is the LINE limit for one reply or push call
const maxMessagesPerRequest = 5

// Compile-time check to ensure LineClientAdapter implements output.Messenger
var _ output.Messenger = (*LineClientAdapter)(nil)

// MessagingAPI is the part of *messaging_api.MessagingApiAPI the adapter uses
type MessagingAPI interface {
	ReplyMessage(replyMessageRequest *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
	PushMessage(pushMessageRequest *messaging_api.PushMessageRequest, xLineRetryKey string) (*messaging_api.PushMessageResponse, error)
}

// LineClientAdapter struct - Output adapter for LINE messaging platform
type LineClientAdapter struct {
	client MessagingAPI
}

// NewLineClientAdapter func - Creates new LINE client adapter
func NewLineClientAdapter(channelToken string) (*LineClientAdapter, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging API client: %w", err)
	}
	return NewLineClientAdapterWithAPI(client), nil
}

// NewLineClientAdapterWithAPI func - Wraps an existing client
func NewLineClientAdapterWithAPI(client MessagingAPI) *LineClientAdapter {
	return &LineClientAdapter{client: client}
}

// Deliver answers with the reply token first. A reply token accepts one call,
// so messages past the first batch are pushed to the chat.
func (a *LineClientAdapter) Deliver(ctx context.Context, reply domain.Reply) error {
	messages := make([]messaging_api.MessageInterface, 0, len(reply.Messages))
	for _, msg := range reply.Messages {
		messages = append(messages, convertToLineMessage(msg))
	}
	if len(messages) == 0 {
		return nil
	}

	if reply.To.ReplyToken != "" {
		batch := messages[:min(len(messages), maxMessagesPerRequest)]
		messages = messages[len(batch):]

		_, err := a.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
			ReplyToken: reply.To.ReplyToken,
			Messages:   batch,
		})
		if err != nil {
			return fmt.Errorf("failed to send reply message: %w", err)
		}
		logrus.Debugf("Sent %d LINE reply messages", len(batch))
	}

	if len(messages) > 0 && reply.To.ChatID == "" {
		return errors.New("no LINE chat to push the remaining messages to")
	}
	for len(messages) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := messages[:min(len(messages), maxMessagesPerRequest)]
		messages = messages[len(batch):]

		_, err := a.client.PushMessage(&messaging_api.PushMessageRequest{
			To:       reply.To.ChatID,
			Messages: batch,
		}, "")
		if err != nil {
			return fmt.Errorf("failed to send push message: %w", err)
		}
		logrus.Debugf("Pushed %d LINE messages to %s", len(batch), reply.To.ChatID)
	}
	return nil
}

// convertToLineMessage - LINE renders neither Markdown nor Telegram file ids,
// so emphasis is dropped and stored photos are listed by caption.
func convertToLineMessage(msg domain.OutboundMessage) messaging_api.MessageInterface {
	body := msg.Body
	if msg.ParseMode == domain.ParseModeMarkdown {
		body = stripMarkdown(body)
	}
	if msg.PhotoFileID != "" {
		body = "🖼 " + body
	}

	text := &messaging_api.TextMessage{Text: body}
	if rows := msg.Menu.Keyboard(); len(rows) > 0 {
		text.QuickReply = quickReply(rows)
	}
	return text
}

// stripMarkdown removes single asterisks while keeping escaped characters
func stripMarkdown(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func quickReply(rows [][]string) *messaging_api.QuickReply {
	items := make([]messaging_api.QuickReplyItem, 0)
	for _, row := range rows {
		for _, label := range row {
			items = append(items, messaging_api.QuickReplyItem{
				Type: "action",
				Action: &messaging_api.MessageAction{
					Label: label,
					Text:  label,
				},
			})
		}
	}
	return &messaging_api.QuickReply{Items: items}
}
