package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvictionPolicy decides what happens when an account that is already
// authenticated in one chat logs in from another participant.
type EvictionPolicy int

const (
	// EvictPrevious rebinds the account to the new participant and silently
	// ends the session of the previous one.
	EvictPrevious EvictionPolicy = iota
	// RejectWhenBound refuses the login while another participant holds the session.
	RejectWhenBound
)

// String returns the config name of the policy
func (p EvictionPolicy) String() string {
	if p == RejectWhenBound {
		return "reject_when_bound"
	}
	return "evict_previous"
}

// SessionBinding ties an account to the chat participant that last logged in.
type SessionBinding struct {
	ParticipantID *string `gorm:"type:varchar(64);index"`
	Authenticated bool    `gorm:"not null"`
}

// ActiveFor reports whether the binding is an authenticated session of participantID
func (b SessionBinding) ActiveFor(participantID string) bool {
	return b.Authenticated && b.ParticipantID != nil && *b.ParticipantID == participantID
}

// Account struct - registered bot user
type Account struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;"`
	Username       string         `gorm:"type:varchar(32);not null;uniqueIndex"`
	PasswordHash   string         `gorm:"type:varchar(72);not null;"`
	Session        SessionBinding `gorm:"embedded"`
	ActiveFolderID *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt      time.Time      `gorm:"type:timestamp"`
	UpdatedAt      time.Time      `gorm:"type:timestamp"`
}

// TableName func
func (a *Account) TableName() string {
	return "accounts"
}

// BeforeCreate hook - generates UUID before creating
func (a *Account) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID, err = EnsureID(a.ID)
	return err
}

// Bind authenticates the account for participantID. It returns the participant
// whose session was evicted, if any.
func (a *Account) Bind(participantID string, policy EvictionPolicy) (string, error) {
	var evicted string
	if a.Session.Authenticated && a.Session.ParticipantID != nil && *a.Session.ParticipantID != participantID {
		if policy == RejectWhenBound {
			return "", ErrSessionConflict
		}
		evicted = *a.Session.ParticipantID
	}
	a.Session = SessionBinding{ParticipantID: &participantID, Authenticated: true}
	return evicted, nil
}

// Unbind ends the session. The participant binding is kept so the account
// still records where it was last used.
func (a *Account) Unbind() {
	a.Session.Authenticated = false
	a.ActiveFolderID = nil
}

// Folder struct - named image folder owned by one account
type Folder struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_folders_owner_name,priority:1"`
	Name      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_folders_owner_name,priority:2"`
	CreatedAt time.Time `gorm:"type:timestamp;index"`
}

// TableName func
func (f *Folder) TableName() string {
	return "folders"
}

// BeforeCreate hook - generates UUID before creating
func (f *Folder) BeforeCreate(tx *gorm.DB) (err error) {
	f.ID, err = EnsureID(f.ID)
	return err
}

// File struct - reference to an image kept in the storage channel
type File struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	FolderID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_files_folder_blob,priority:1"`
	Name          string    `gorm:"type:varchar(255);not null"`
	BlobMessageID int64     `gorm:"not null;uniqueIndex:idx_files_folder_blob,priority:2"`
	BlobFileID    string    `gorm:"type:text;not null"`
	UploadedAt    time.Time `gorm:"type:timestamp;not null;index"`
}

// TableName func
func (f *File) TableName() string {
	return "files"
}

// BeforeCreate hook - generates UUID before creating
func (f *File) BeforeCreate(tx *gorm.DB) (err error) {
	f.ID, err = EnsureID(f.ID)
	return err
}

// EnsureID returns id, or a new random (v4) UUID when id is zero.
func EnsureID(id uuid.UUID) (uuid.UUID, error) {
	if id != uuid.Nil {
		return id, nil
	}
	return uuid.NewRandom()
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(&Account{}, &Folder{}, &File{})
}
