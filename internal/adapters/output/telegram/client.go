package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"picturedrive/internal/domain"
)

// Sender is the part of *tgbotapi.BotAPI used to post messages
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// FileURLResolver is the part of *tgbotapi.BotAPI used to download files
type FileURLResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

var unavailableDescriptions = []string{
	"chat not found",
	"not enough rights",
	"need administrator rights",
	"bot is not a member",
	"bot was kicked",
}

// isDestinationUnavailable reports whether err means the bot cannot post to the
// chat at all, as opposed to a failure of this one request.
func isDestinationUnavailable(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		var valueErr tgbotapi.Error
		if !errors.As(err, &valueErr) {
			return false
		}
		apiErr = &valueErr
	}

	if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
		return true
	}
	description := strings.ToLower(apiErr.Message)
	for _, s := range unavailableDescriptions {
		if strings.Contains(description, s) {
			return true
		}
	}
	return false
}

func parseChatID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", raw, err)
	}
	return id, nil
}

func replyMarkup(menu domain.Menu) interface{} {
	switch menu {
	case domain.MenuLoggedOut, domain.MenuLoggedIn:
		rows := make([][]tgbotapi.KeyboardButton, 0)
		for _, labels := range menu.Keyboard() {
			row := make([]tgbotapi.KeyboardButton, 0, len(labels))
			for _, label := range labels {
				row = append(row, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, row)
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.ResizeKeyboard = true
		return keyboard
	case domain.MenuForceReply:
		return tgbotapi.ForceReply{ForceReply: true, Selective: true}
	default:
		return nil
	}
}
