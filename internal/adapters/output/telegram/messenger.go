package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure Messenger implements output.Messenger
var _ output.Messenger = (*Messenger)(nil)

// Messenger struct - Output adapter answering Telegram chats
type Messenger struct {
	sender Sender
}

// NewMessenger func
func NewMessenger(sender Sender) *Messenger {
	return &Messenger{sender: sender}
}

// Deliver sends the messages of reply in order and stops at the first failure
func (m *Messenger) Deliver(ctx context.Context, reply domain.Reply) error {
	chatID, err := parseChatID(reply.To.ChatID)
	if err != nil {
		return err
	}

	for i, message := range reply.Messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := m.sender.Send(buildMessage(chatID, message)); err != nil {
			logrus.WithFields(logrus.Fields{
				"chat":    chatID,
				"message": i,
			}).Errorf("Failed to send telegram message: %v", err)
			return fmt.Errorf("failed to send telegram message %d of %d: %w", i+1, len(reply.Messages), err)
		}
	}
	return nil
}

func buildMessage(chatID int64, message domain.OutboundMessage) tgbotapi.Chattable {
	markup := replyMarkup(message.Menu)

	if message.PhotoFileID != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(message.PhotoFileID))
		photo.Caption = message.Body
		photo.ParseMode = string(message.ParseMode)
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		return photo
	}

	msg := tgbotapi.NewMessage(chatID, message.Body)
	msg.ParseMode = string(message.ParseMode)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return msg
}
