package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure FileFetcher implements output.ImageFetcher
var _ output.ImageFetcher = (*FileFetcher)(nil)

// DefaultDownloadTimeout bounds a download when no client is given
const DefaultDownloadTimeout = 30 * time.Second

// FileFetcher struct - Downloads Telegram files, used for images sent as documents
type FileFetcher struct {
	resolver FileURLResolver
	client   *http.Client
}

// NewFileFetcher func - client may be nil, which gives a client limited to
// DefaultDownloadTimeout
func NewFileFetcher(resolver FileURLResolver, client *http.Client) *FileFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultDownloadTimeout}
	}
	return &FileFetcher{resolver: resolver, client: client}
}

// Fetch opens the file content. The caller closes it.
func (f *FileFetcher) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	url, err := f.resolver.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download file %s: status %d", fileID, resp.StatusCode)
	}
	return resp.Body, nil
}
