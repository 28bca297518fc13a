package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure FolderRepository implements output.FolderRepository
var _ output.FolderRepository = (*FolderRepository)(nil)

// FolderRepository struct - Secondary/Driven adapter for PostgreSQL
type FolderRepository struct {
	dbGorm *gorm.DB
}

// NewFolderRepository func - Creates new PostgreSQL folder repository
func NewFolderRepository(dbGorm *gorm.DB) *FolderRepository {
	return &FolderRepository{dbGorm: dbGorm}
}

// CreateFolder func
func (p *FolderRepository) CreateFolder(ctx context.Context, folder *domain.Folder) error {
	err := p.dbGorm.WithContext(ctx).Create(folder).Error
	return translateError(err, "create folder", domain.ErrDuplicateFolder)
}

// FindFoldersByOwner func
func (p *FolderRepository) FindFoldersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Folder, error) {
	folders := []domain.Folder{}
	err := p.dbGorm.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&folders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// FindFolder func
func (p *FolderRepository) FindFolder(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Folder, error) {
	var folder domain.Folder
	err := p.dbGorm.WithContext(ctx).Where("owner_id = ? AND name = ?", ownerID, name).First(&folder).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find folder: %w", err)
	}
	return &folder, nil
}

// FindFolderByIDAndOwner func
func (p *FolderRepository) FindFolderByIDAndOwner(ctx context.Context, folderID, ownerID uuid.UUID) (*domain.Folder, error) {
	var folder domain.Folder
	err := p.dbGorm.WithContext(ctx).Where("id = ? AND owner_id = ?", folderID, ownerID).First(&folder).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find folder: %w", err)
	}
	return &folder, nil
}

// CreateFile func
func (p *FolderRepository) CreateFile(ctx context.Context, file *domain.File) error {
	err := p.dbGorm.WithContext(ctx).Create(file).Error
	return translateError(err, "create file", domain.ErrDuplicateRecord)
}

// FindFilesByFolder func
func (p *FolderRepository) FindFilesByFolder(ctx context.Context, ownerID, folderID uuid.UUID) ([]domain.File, error) {
	files := []domain.File{}
	err := p.dbGorm.WithContext(ctx).
		Where("owner_id = ? AND folder_id = ?", ownerID, folderID).
		Order("uploaded_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}
