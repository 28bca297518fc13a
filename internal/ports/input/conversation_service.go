package input

import (
	"context"

	"github.com/google/uuid"

	"picturedrive/internal/domain"
)

// ConversationService interface - Input port (use case)
// Entry point for every inbound chat event
type ConversationService interface {
	// HandleEvent runs the event through the session state machine and
	// delivers the reply. Participant facing failures are answered, not
	// returned; the error reports delivery or internal failures only.
	HandleEvent(ctx context.Context, event domain.InboundEvent) error
}

// AuthService interface - Input port (use case)
type AuthService interface {
	Register(ctx context.Context, username, password, participantID string) (*domain.Account, error)
	Login(ctx context.Context, username, password, participantID string) (*domain.Account, error)
	Logout(ctx context.Context, participantID string) error
	ResolveCurrentAccount(ctx context.Context, participantID string) *domain.Account
	ValidateUsername(username string) error
	ValidatePassword(password string) error
}

// FolderService interface - Input port (use case)
type FolderService interface {
	CreateFolder(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Folder, error)
	ListFolders(ctx context.Context, ownerID uuid.UUID) ([]domain.Folder, error)
	OpenFolder(ctx context.Context, ownerID uuid.UUID, name string) (*domain.OpenedFolder, error)
	VerifyOwnership(ctx context.Context, ownerID, folderID uuid.UUID) (*domain.Folder, error)
}

// UploadService interface - Input port (use case)
type UploadService interface {
	Upload(ctx context.Context, participantID string, request domain.UploadRequest) (*domain.File, error)
}
