package router

import (
	"context"
	"fmt"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure Messenger implements output.Messenger
var _ output.Messenger = (*Messenger)(nil)

// Messenger struct - Output adapter delivering each reply through the
// messenger of the platform it is addressed to
type Messenger struct {
	platforms map[domain.Platform]output.Messenger
}

// NewMessenger func
func NewMessenger() *Messenger {
	return &Messenger{platforms: make(map[domain.Platform]output.Messenger)}
}

// Register sets the messenger of platform. It is not safe to call once delivery started.
func (m *Messenger) Register(platform domain.Platform, messenger output.Messenger) *Messenger {
	m.platforms[platform] = messenger
	return m
}

// Deliver func
func (m *Messenger) Deliver(ctx context.Context, reply domain.Reply) error {
	messenger, ok := m.platforms[reply.To.Platform]
	if !ok {
		return fmt.Errorf("no messenger registered for platform %q", reply.To.Platform)
	}
	return messenger.Deliver(ctx, reply)
}
