package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"picturedrive/internal/domain"
)

// ConvertUpdate maps a Telegram update to an inbound event. Updates that are
// not user messages, or that carry neither text nor media, are skipped.
func ConvertUpdate(update tgbotapi.Update) (domain.InboundEvent, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return domain.InboundEvent{}, false
	}

	event := domain.InboundEvent{
		ID:            strconv.Itoa(update.UpdateID),
		Platform:      domain.PlatformTelegram,
		ParticipantID: strconv.FormatInt(msg.From.ID, 10),
		ReplyTo: domain.ReplyTarget{
			Platform: domain.PlatformTelegram,
			ChatID:   strconv.FormatInt(msg.Chat.ID, 10),
		},
		Caption:    msg.Caption,
		ReceivedAt: msg.Time(),
	}

	switch {
	case msg.Text != "":
		text := msg.Text
		event.Text = &text
	case len(msg.Photo) > 0:
		photos := make([]domain.PhotoSize, 0, len(msg.Photo))
		for _, p := range msg.Photo {
			photos = append(photos, domain.PhotoSize{FileID: p.FileID, Width: p.Width, Height: p.Height, FileSize: p.FileSize})
		}
		event.Attachment = &domain.Attachment{Kind: domain.AttachmentPhoto, Photos: photos}
	case msg.Document != nil:
		event.Attachment = &domain.Attachment{
			Kind:     domain.AttachmentDocument,
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MimeType,
		}
	default:
		return domain.InboundEvent{}, false
	}
	return event, true
}
