package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure AccountRepository implements output.AccountRepository
var _ output.AccountRepository = (*AccountRepository)(nil)

// AccountRepository struct - Secondary/Driven adapter for PostgreSQL
type AccountRepository struct {
	dbGorm *gorm.DB
}

// NewAccountRepository func - Creates new PostgreSQL account repository
func NewAccountRepository(dbGorm *gorm.DB) *AccountRepository {
	return &AccountRepository{dbGorm: dbGorm}
}

// FindByUsername func
func (p *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var account domain.Account
	err := p.dbGorm.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by username: %w", err)
	}
	return &account, nil
}

// FindByParticipant func
func (p *AccountRepository) FindByParticipant(ctx context.Context, participantID string) (*domain.Account, error) {
	var account domain.Account
	err := p.dbGorm.WithContext(ctx).
		Where("participant_id = ? AND authenticated = ?", participantID, true).
		Order("updated_at DESC").
		First(&account).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by participant: %w", err)
	}
	return &account, nil
}

// Create func - Inserts a new account. A taken username surfaces as domain.ErrDuplicateUsername.
func (p *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := p.dbGorm.WithContext(ctx).Create(account).Error
	return translateError(err, "create account", domain.ErrDuplicateUsername)
}

// Save func - Writes every column of account
func (p *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	err := p.dbGorm.WithContext(ctx).Save(account).Error
	return translateError(err, "save account", domain.ErrDuplicateUsername)
}

// ReleaseParticipant func
func (p *AccountRepository) ReleaseParticipant(ctx context.Context, participantID string, except uuid.UUID) (int64, error) {
	tx := p.dbGorm.WithContext(ctx).
		Model(&domain.Account{}).
		Where("participant_id = ? AND authenticated = ? AND id <> ?", participantID, true, except).
		Updates(map[string]interface{}{
			"authenticated":    false,
			"active_folder_id": nil,
		})
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to release participant: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}

// SetActiveFolder func - Single column update of the active folder pointer
func (p *AccountRepository) SetActiveFolder(ctx context.Context, accountID uuid.UUID, folderID *uuid.UUID) error {
	tx := p.dbGorm.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", accountID).
		Update("active_folder_id", folderID)
	if tx.Error != nil {
		return fmt.Errorf("failed to set active folder: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("failed to set active folder: account %s not found", accountID)
	}
	return nil
}
