package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/input"
	"picturedrive/internal/ports/output"
)

// DefaultFileLabel names images sent without a caption
const DefaultFileLabel = "Uploaded Image"

// maxFileLabelRunes matches the width of the stored file name
const maxFileLabelRunes = 255

// UploadService struct - Application service implementing the upload pipeline
type UploadService struct {
	auth     input.AuthService
	folders  input.FolderService
	files    output.FolderRepository
	blobHost output.BlobHost
	clock    *monotonicClock
}

// NewUploadService func - Creates new upload service. now may be nil.
func NewUploadService(auth input.AuthService, folders input.FolderService, files output.FolderRepository, blobHost output.BlobHost, now func() time.Time) *UploadService {
	return &UploadService{
		auth:     auth,
		folders:  folders,
		files:    files,
		blobHost: blobHost,
		clock:    newMonotonicClock(now),
	}
}

// Upload func - Use case: relay an image into the storage channel and record it
// in the participant's active folder. Preconditions are checked before any
// relay or write.
func (s *UploadService) Upload(ctx context.Context, participantID string, request domain.UploadRequest) (*domain.File, error) {
	account := s.auth.ResolveCurrentAccount(ctx, participantID)
	if account == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if account.ActiveFolderID == nil {
		return nil, domain.ErrNoActiveFolder
	}

	folder, err := s.folders.VerifyOwnership(ctx, account.ID, *account.ActiveFolderID)
	if err != nil {
		return nil, err
	}

	image, ok := request.Attachment.BestImage()
	if !ok {
		return nil, domain.ErrUnsupportedAttachment
	}
	image.Platform = request.Platform

	label := fileLabel(request.Caption)

	pointer, err := s.blobHost.Relay(ctx, domain.RelayRequest{
		Image:   image,
		Caption: fmt.Sprintf("User:%s Folder:%s Name:%s", account.Username, folder.ID, label),
	})
	if err != nil {
		if errors.Is(err, domain.ErrBlobHostUnavailable) {
			uploadsTotal.WithLabelValues(uploadResultUnavailable).Inc()
			return nil, err
		}
		uploadsTotal.WithLabelValues(uploadResultRelayFailed).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrBlobRelayFailed, err)
	}

	file := &domain.File{
		OwnerID:       account.ID,
		FolderID:      folder.ID,
		Name:          label,
		BlobMessageID: pointer.MessageID,
		BlobFileID:    pointer.FileID,
		UploadedAt:    s.clock.Now(),
	}
	if err := s.files.CreateFile(ctx, file); err != nil {
		uploadsTotal.WithLabelValues(uploadResultOrphaned).Inc()
		logrus.WithFields(logrus.Fields{
			"account":      account.ID,
			"folder":       folder.ID,
			"blob_message": pointer.MessageID,
		}).Errorf("Relayed image has no file record: %v", err)
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	uploadsTotal.WithLabelValues(uploadResultStored).Inc()
	logrus.WithFields(logrus.Fields{
		"account": account.ID,
		"folder":  folder.ID,
	}).Infof("Stored image: file=%s blob_message=%d", file.ID, file.BlobMessageID)
	return file, nil
}

// fileLabel names the file after its caption, clipped to the stored width
func fileLabel(caption string) string {
	label := strings.TrimSpace(caption)
	if utf8.RuneCountInString(label) > maxFileLabelRunes {
		label = strings.TrimSpace(string([]rune(label)[:maxFileLabelRunes]))
	}
	if label == "" {
		return DefaultFileLabel
	}
	return label
}
