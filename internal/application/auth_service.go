package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
	"picturedrive/pkg/validator"
)

// maxPasswordBytes is the bcrypt input limit
const maxPasswordBytes = 72

// AuthConfig struct - tunables of the auth gateway
type AuthConfig struct {
	BcryptCost     int
	EvictionPolicy domain.EvictionPolicy
}

// AuthService struct - Application service implementing registration, login and logout
type AuthService struct {
	accounts  output.AccountRepository
	validator validator.Validator
	cost      int
	policy    domain.EvictionPolicy
	locks     *keyedMutex
	dummyHash []byte
}

// NewAuthService func - Creates new auth service
func NewAuthService(accounts output.AccountRepository, v validator.Validator, cfg AuthConfig) *AuthService {
	cost := cfg.BcryptCost
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte("picturedrive-unknown-account"), cost)
	if err != nil {
		logrus.Errorf("Failed to prepare dummy password hash: %v", err)
	}

	return &AuthService{
		accounts:  accounts,
		validator: v,
		cost:      cost,
		policy:    cfg.EvictionPolicy,
		locks:     newKeyedMutex(),
		dummyHash: dummyHash,
	}
}

// ValidateUsername checks the username format without touching the store
func (s *AuthService) ValidateUsername(username string) error {
	if strings.IndexFunc(username, func(r rune) bool { return unicode.IsSpace(r) || !unicode.IsPrint(r) }) >= 0 {
		return domain.ErrInvalidUsername
	}
	if err := s.validator.ValidateStruct(domain.Credentials{Username: username, Password: "-"}); err != nil {
		return domain.ErrInvalidUsername
	}
	return nil
}

// ValidatePassword checks the password is present and fits bcrypt
func (s *AuthService) ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" || len(password) > maxPasswordBytes {
		return domain.ErrInvalidPassword
	}
	return nil
}

// Register func - Use case: create an account bound to participantID, not yet logged in
func (s *AuthService) Register(ctx context.Context, username, password, participantID string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if err := s.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := s.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Username:     username,
		PasswordHash: string(hash),
		Session:      domain.SessionBinding{ParticipantID: &participantID},
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"account":     account.ID,
		"participant": participantID,
	}).Infof("Registered account: username=%s", username)
	return account, nil
}

// Login func - Use case: authenticate and bind the account to participantID
func (s *AuthService) Login(ctx context.Context, username, password, participantID string) (*domain.Account, error) {
	username = strings.TrimSpace(username)

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if account == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	unlock := s.locks.Lock(account.ID.String())
	defer unlock()

	// Reload under the account lock so concurrent logins see each other's binding.
	account, err = s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to reload account: %w", err)
	}
	if account == nil {
		return nil, domain.ErrInvalidCredentials
	}

	evicted, err := account.Bind(participantID, s.policy)
	if err != nil {
		return nil, err
	}

	released, err := s.accounts.ReleaseParticipant(ctx, participantID, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to release participant: %w", err)
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	entry := logrus.WithFields(logrus.Fields{
		"account":     account.ID,
		"participant": participantID,
	})
	if evicted != "" {
		entry.Warnf("Login evicted previous session: participant=%s", evicted)
	}
	if released > 0 {
		entry.Infof("Login released %d other account(s) of the participant", released)
	}
	entry.Info("Logged in")
	return account, nil
}

// Logout func - Use case: end the session authenticated under participantID
func (s *AuthService) Logout(ctx context.Context, participantID string) error {
	account, err := s.accounts.FindByParticipant(ctx, participantID)
	if err != nil {
		return fmt.Errorf("failed to find session: %w", err)
	}
	if account == nil {
		return domain.ErrNoActiveSession
	}

	unlock := s.locks.Lock(account.ID.String())
	defer unlock()

	account, err = s.accounts.FindByParticipant(ctx, participantID)
	if err != nil {
		return fmt.Errorf("failed to reload session: %w", err)
	}
	if account == nil {
		return domain.ErrNoActiveSession
	}

	account.Unbind()
	if err := s.accounts.Save(ctx, account); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"account":     account.ID,
		"participant": participantID,
	}).Info("Logged out")
	return nil
}

// ResolveCurrentAccount func - returns the account authenticated under participantID, or nil
func (s *AuthService) ResolveCurrentAccount(ctx context.Context, participantID string) *domain.Account {
	account, err := s.accounts.FindByParticipant(ctx, participantID)
	if err != nil {
		logrus.WithField("participant", participantID).Errorf("Failed to resolve current account: %v", err)
		return nil
	}
	if account == nil || !account.Session.ActiveFor(participantID) {
		return nil
	}
	return account
}
