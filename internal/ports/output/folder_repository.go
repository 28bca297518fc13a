package output

import (
	"context"

	"github.com/google/uuid"

	"picturedrive/internal/domain"
)

// FolderRepository interface - Output port
// Folder/file index scoped by owner. (owner, name) must be unique at the
// storage layer and surface as domain.ErrDuplicateFolder; a duplicate file
// record surfaces as domain.ErrDuplicateRecord.
type FolderRepository interface {
	CreateFolder(ctx context.Context, folder *domain.Folder) error

	// FindFoldersByOwner returns the owner's folders, newest first
	FindFoldersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Folder, error)

	// FindFolder returns nil, nil when the owner has no folder with that name
	FindFolder(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Folder, error)

	// FindFolderByIDAndOwner returns nil, nil when the folder is missing or foreign
	FindFolderByIDAndOwner(ctx context.Context, folderID, ownerID uuid.UUID) (*domain.Folder, error)

	CreateFile(ctx context.Context, file *domain.File) error

	// FindFilesByFolder returns the files of one owned folder, newest first
	FindFilesByFolder(ctx context.Context, ownerID, folderID uuid.UUID) ([]domain.File, error)
}
