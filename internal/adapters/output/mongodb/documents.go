package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"picturedrive/internal/domain"
)

type accountDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	PasswordHash   string    `bson:"password_hash"`
	ParticipantID  *string   `bson:"participant_id"`
	Authenticated  bool      `bson:"authenticated"`
	ActiveFolderID *string   `bson:"active_folder_id"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

// Timestamps are also kept in microseconds since BSON dates stop at
// milliseconds and listings must stay newest first.
type folderDocument struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	Name        string    `bson:"name"`
	CreatedAt   time.Time `bson:"created_at"`
	CreatedAtUS int64     `bson:"created_at_us"`
}

type fileDocument struct {
	ID            string    `bson:"_id"`
	OwnerID       string    `bson:"owner_id"`
	FolderID      string    `bson:"folder_id"`
	Name          string    `bson:"name"`
	BlobMessageID int64     `bson:"blob_message_id"`
	BlobFileID    string    `bson:"blob_file_id"`
	UploadedAt    time.Time `bson:"uploaded_at"`
	UploadedAtUS  int64     `bson:"uploaded_at_us"`
}

func accountToDocument(a *domain.Account) accountDocument {
	return accountDocument{
		ID:             a.ID.String(),
		Username:       a.Username,
		PasswordHash:   a.PasswordHash,
		ParticipantID:  a.Session.ParticipantID,
		Authenticated:  a.Session.Authenticated,
		ActiveFolderID: idString(a.ActiveFolderID),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (d *accountDocument) toDomain() (*domain.Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", d.ID, err)
	}
	activeFolder, err := parseOptionalID(d.ActiveFolderID)
	if err != nil {
		return nil, fmt.Errorf("invalid active folder id: %w", err)
	}
	return &domain.Account{
		ID:             id,
		Username:       d.Username,
		PasswordHash:   d.PasswordHash,
		Session:        domain.SessionBinding{ParticipantID: d.ParticipantID, Authenticated: d.Authenticated},
		ActiveFolderID: activeFolder,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func folderToDocument(f *domain.Folder) folderDocument {
	return folderDocument{
		ID:          f.ID.String(),
		OwnerID:     f.OwnerID.String(),
		Name:        f.Name,
		CreatedAt:   f.CreatedAt,
		CreatedAtUS: f.CreatedAt.UnixMicro(),
	}
}

func (d *folderDocument) toDomain() (*domain.Folder, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid folder id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid folder owner %q: %w", d.OwnerID, err)
	}
	return &domain.Folder{
		ID:        id,
		OwnerID:   owner,
		Name:      d.Name,
		CreatedAt: time.UnixMicro(d.CreatedAtUS).UTC(),
	}, nil
}

func fileToDocument(f *domain.File) fileDocument {
	return fileDocument{
		ID:            f.ID.String(),
		OwnerID:       f.OwnerID.String(),
		FolderID:      f.FolderID.String(),
		Name:          f.Name,
		BlobMessageID: f.BlobMessageID,
		BlobFileID:    f.BlobFileID,
		UploadedAt:    f.UploadedAt,
		UploadedAtUS:  f.UploadedAt.UnixMicro(),
	}
}

func (d *fileDocument) toDomain() (*domain.File, error) {
	ids := make([]uuid.UUID, 3)
	for i, raw := range []string{d.ID, d.OwnerID, d.FolderID} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid file reference %q: %w", raw, err)
		}
		ids[i] = id
	}
	return &domain.File{
		ID:            ids[0],
		OwnerID:       ids[1],
		FolderID:      ids[2],
		Name:          d.Name,
		BlobMessageID: d.BlobMessageID,
		BlobFileID:    d.BlobFileID,
		UploadedAt:    time.UnixMicro(d.UploadedAtUS).UTC(),
	}, nil
}
