package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// maxFolderNameRunes matches the folders.name column
const maxFolderNameRunes = 64

// FolderService struct - Application service implementing folder use cases
type FolderService struct {
	folders  output.FolderRepository
	accounts output.AccountRepository
	clock    *monotonicClock
}

// NewFolderService func - Creates new folder service
func NewFolderService(folders output.FolderRepository, accounts output.AccountRepository) *FolderService {
	return &FolderService{
		folders:  folders,
		accounts: accounts,
		clock:    newMonotonicClock(nil),
	}
}

// CreateFolder func - Use case: create a folder with a name unique for the owner
func (s *FolderService) CreateFolder(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrFolderNameEmpty
	}
	if utf8.RuneCountInString(name) > maxFolderNameRunes {
		return nil, domain.ErrFolderNameTooLong
	}

	existing, err := s.folders.FindFolder(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up folder: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateFolder
	}

	folder := &domain.Folder{OwnerID: ownerID, Name: name, CreatedAt: s.clock.Now()}
	if err := s.folders.CreateFolder(ctx, folder); err != nil {
		if errors.Is(err, domain.ErrDuplicateFolder) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	logrus.WithField("owner", ownerID).Infof("Created folder: id=%s", folder.ID)
	return folder, nil
}

// ListFolders func - Use case: list the owner's folders, newest first
func (s *FolderService) ListFolders(ctx context.Context, ownerID uuid.UUID) ([]domain.Folder, error) {
	folders, err := s.folders.FindFoldersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	if folders == nil {
		folders = []domain.Folder{}
	}
	return folders, nil
}

// OpenFolder func - Use case: make the named folder the upload target and list its files
func (s *FolderService) OpenFolder(ctx context.Context, ownerID uuid.UUID, name string) (*domain.OpenedFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrFolderNotFound
	}

	folder, err := s.folders.FindFolder(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up folder: %w", err)
	}
	if folder == nil {
		return nil, domain.ErrFolderNotFound
	}

	if err := s.accounts.SetActiveFolder(ctx, ownerID, &folder.ID); err != nil {
		return nil, fmt.Errorf("failed to set active folder: %w", err)
	}

	files, err := s.folders.FindFilesByFolder(ctx, ownerID, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if files == nil {
		files = []domain.File{}
	}

	return &domain.OpenedFolder{Folder: *folder, Files: files}, nil
}

// VerifyOwnership func - fails with domain.ErrFolderNotOwned unless ownerID owns folderID
func (s *FolderService) VerifyOwnership(ctx context.Context, ownerID, folderID uuid.UUID) (*domain.Folder, error) {
	folder, err := s.folders.FindFolderByIDAndOwner(ctx, folderID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify folder ownership: %w", err)
	}
	if folder == nil {
		return nil, domain.ErrFolderNotOwned
	}
	return folder, nil
}
