package line

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure BlobFetcher implements output.ImageFetcher
var _ output.ImageFetcher = (*BlobFetcher)(nil)

// BlobAPI is the part of *messaging_api.MessagingApiBlobAPI the fetcher uses
type BlobAPI interface {
	GetMessageContent(messageId string) (*http.Response, error)
}

// BlobFetcher struct - Downloads images sent to the LINE bot
type BlobFetcher struct {
	api BlobAPI
}

// NewBlobFetcher func
func NewBlobFetcher(channelToken string) (*BlobFetcher, error) {
	api, err := messaging_api.NewMessagingApiBlobAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE blob API client: %w", err)
	}
	return NewBlobFetcherWithAPI(api), nil
}

// NewBlobFetcherWithAPI func - Wraps an existing client
func NewBlobFetcherWithAPI(api BlobAPI) *BlobFetcher {
	return &BlobFetcher{api: api}
}

// Fetch opens the content of a LINE image message. The caller closes it.
func (f *BlobFetcher) Fetch(ctx context.Context, messageID string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := f.api.GetMessageContent(messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get LINE message content: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to get LINE message content: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
