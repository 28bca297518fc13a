package output

import (
	"context"

	"github.com/google/uuid"

	"picturedrive/internal/domain"
)

// AccountRepository interface - Output port
// Credential store. Usernames must be unique at the storage layer and a
// duplicate must surface as domain.ErrDuplicateUsername.
type AccountRepository interface {
	// FindByUsername returns nil, nil when no account matches
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)

	// FindByParticipant returns the account authenticated under participantID, or nil, nil
	FindByParticipant(ctx context.Context, participantID string) (*domain.Account, error)

	Create(ctx context.Context, account *domain.Account) error
	Save(ctx context.Context, account *domain.Account) error

	// ReleaseParticipant logs out every account except the given one that is
	// authenticated under participantID, and returns how many were released.
	ReleaseParticipant(ctx context.Context, participantID string, except uuid.UUID) (int64, error)

	// SetActiveFolder updates only the active folder pointer of the account
	SetActiveFolder(ctx context.Context, accountID uuid.UUID, folderID *uuid.UUID) error
}
