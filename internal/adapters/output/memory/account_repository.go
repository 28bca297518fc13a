package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure AccountRepository implements output.AccountRepository
var _ output.AccountRepository = (*AccountRepository)(nil)

// ErrAccountNotFound is returned when saving an account that was never created
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository struct - Output adapter keeping accounts in process memory.
// Callers get copies; changes take effect through Save.
type AccountRepository struct {
	mu         sync.RWMutex
	accounts   map[uuid.UUID]domain.Account
	byUsername map[string]uuid.UUID
}

// NewAccountRepository func
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts:   make(map[uuid.UUID]domain.Account),
		byUsername: make(map[string]uuid.UUID),
	}
}

// FindByUsername func
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	return copyAccount(r.accounts[id]), nil
}

// FindByParticipant func
func (r *AccountRepository) FindByParticipant(ctx context.Context, participantID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Session.ActiveFor(participantID) {
			return copyAccount(account), nil
		}
	}
	return nil, nil
}

// Create func
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[account.Username]; taken {
		return domain.ErrDuplicateUsername
	}

	id, err := domain.EnsureID(account.ID)
	if err != nil {
		return err
	}
	now := time.Now()
	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now

	r.accounts[id] = *copyAccount(*account)
	r.byUsername[account.Username] = id
	return nil
}

// Save func
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.accounts[account.ID]
	if !ok {
		return ErrAccountNotFound
	}
	if current.Username != account.Username {
		if _, taken := r.byUsername[account.Username]; taken {
			return domain.ErrDuplicateUsername
		}
		delete(r.byUsername, current.Username)
		r.byUsername[account.Username] = account.ID
	}

	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = *copyAccount(*account)
	return nil
}

// ReleaseParticipant func
func (r *AccountRepository) ReleaseParticipant(ctx context.Context, participantID string, except uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var released int64
	for id, account := range r.accounts {
		if id == except || !account.Session.ActiveFor(participantID) {
			continue
		}
		account.Unbind()
		account.UpdatedAt = time.Now()
		r.accounts[id] = account
		released++
	}
	return released, nil
}

// SetActiveFolder func
func (r *AccountRepository) SetActiveFolder(ctx context.Context, accountID uuid.UUID, folderID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	account.ActiveFolderID = copyID(folderID)
	account.UpdatedAt = time.Now()
	r.accounts[accountID] = account
	return nil
}

func copyAccount(a domain.Account) *domain.Account {
	if a.Session.ParticipantID != nil {
		pid := *a.Session.ParticipantID
		a.Session.ParticipantID = &pid
	}
	a.ActiveFolderID = copyID(a.ActiveFolderID)
	return &a
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
