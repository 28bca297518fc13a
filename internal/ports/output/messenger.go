package output

import (
	"context"
	"io"

	"picturedrive/internal/domain"
)

// Messenger interface - Output port
// Defines what the application needs from a chat platform to answer a participant
type Messenger interface {
	// Deliver sends every message of reply, in order, to reply.To
	Deliver(ctx context.Context, reply domain.Reply) error
}

// BlobHost interface - Output port
// The storage channel that keeps image bytes
type BlobHost interface {
	// Relay copies the image into the storage channel. It fails with
	// domain.ErrBlobHostUnavailable when the channel is missing or the bot
	// cannot post to it.
	Relay(ctx context.Context, request domain.RelayRequest) (*domain.BlobPointer, error)
}

// ImageFetcher interface - Output port
// Downloads images from platforms whose file ids the blob host cannot resolve
type ImageFetcher interface {
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)
}
