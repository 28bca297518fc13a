package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure BlobHost implements output.BlobHost
var _ output.BlobHost = (*BlobHost)(nil)

// maxCaptionRunes is the Telegram limit for a photo caption
const maxCaptionRunes = 1024

// BlobHost struct - Output adapter keeping image bytes as photos posted to a
// private storage channel. Telegram photos are forwarded by file id; other
// images are downloaded through the fetcher of their platform and uploaded.
type BlobHost struct {
	sender    Sender
	channelID int64
	fetchers  map[domain.Platform]output.ImageFetcher
}

// NewBlobHost func - fetchers may be nil
func NewBlobHost(sender Sender, channelID int64, fetchers map[domain.Platform]output.ImageFetcher) *BlobHost {
	if fetchers == nil {
		fetchers = map[domain.Platform]output.ImageFetcher{}
	}
	return &BlobHost{sender: sender, channelID: channelID, fetchers: fetchers}
}

// Relay posts the image to the storage channel and returns where it landed
func (h *BlobHost) Relay(ctx context.Context, request domain.RelayRequest) (*domain.BlobPointer, error) {
	if h.channelID == 0 {
		return nil, fmt.Errorf("storage channel is not configured: %w", domain.ErrBlobHostUnavailable)
	}

	file, closer, err := h.source(ctx, request.Image)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	photo := tgbotapi.NewPhoto(h.channelID, file)
	photo.Caption = clipCaption(request.Caption)

	sent, err := h.sender.Send(photo)
	if err != nil {
		if isDestinationUnavailable(err) {
			logrus.WithField("channel", h.channelID).Errorf("Storage channel unavailable: %v", err)
			return nil, fmt.Errorf("%v: %w", err, domain.ErrBlobHostUnavailable)
		}
		return nil, fmt.Errorf("failed to post to storage channel: %w", err)
	}
	if len(sent.Photo) == 0 {
		return nil, errors.New("storage channel message carries no photo")
	}

	return &domain.BlobPointer{
		MessageID: int64(sent.MessageID),
		FileID:    sent.Photo[len(sent.Photo)-1].FileID,
	}, nil
}

// source picks how the image reaches Telegram. Only Telegram photos can be
// re-sent by id as photos; documents and foreign images are uploaded.
func (h *BlobHost) source(ctx context.Context, image domain.ImageRef) (tgbotapi.RequestFileData, io.Closer, error) {
	platform := image.Platform
	if platform == "" {
		platform = domain.PlatformTelegram
	}
	if platform == domain.PlatformTelegram && image.Kind == domain.AttachmentPhoto {
		return tgbotapi.FileID(image.FileID), nil, nil
	}

	fetcher, ok := h.fetchers[platform]
	if !ok {
		return nil, nil, fmt.Errorf("no image fetcher for platform %s", platform)
	}
	body, err := fetcher.Fetch(ctx, image.FileID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch %s image: %w", platform, err)
	}

	name := image.FileName
	if name == "" {
		name = image.FileID + ".jpg"
	}
	return tgbotapi.FileReader{Name: name, Reader: body}, body, nil
}

func clipCaption(caption string) string {
	if utf8.RuneCountInString(caption) <= maxCaptionRunes {
		return caption
	}
	return string([]rune(caption)[:maxCaptionRunes])
}
