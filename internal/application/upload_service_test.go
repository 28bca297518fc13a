package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picturedrive/internal/domain"
)

// openedFolder logs alice in under 111 and opens a fresh folder
func openedFolder(t *testing.T, env *testEnv) (*domain.Account, *domain.Folder) {
	t.Helper()
	ctx := context.Background()
	alice := env.loggedIn(t, "alice", "111")
	folder, err := env.folderSvc.CreateFolder(ctx, alice.ID, "Vacation")
	require.NoError(t, err)
	_, err = env.folderSvc.OpenFolder(ctx, alice.ID, "Vacation")
	require.NoError(t, err)
	return alice, folder
}

func photoRequest(caption string) domain.UploadRequest {
	return domain.UploadRequest{
		Platform:   domain.PlatformTelegram,
		Attachment: photoEvent("111", caption).Attachment,
		Caption:    caption,
	}
}

func TestUploadServicePreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("not authenticated", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uploads.Upload(ctx, "111", photoRequest("x"))

		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
		assert.Zero(t, env.blobHost.RelayCount())
		assert.Zero(t, env.folders.CreateFileCalls)
	})

	t.Run("no active folder", func(t *testing.T) {
		env := newTestEnv(t)
		env.loggedIn(t, "alice", "111")

		_, err := env.uploads.Upload(ctx, "111", photoRequest("x"))

		assert.ErrorIs(t, err, domain.ErrNoActiveFolder)
		assert.Zero(t, env.blobHost.RelayCount())
		assert.Zero(t, env.folders.CreateFileCalls)
	})

	t.Run("stale active folder", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.loggedIn(t, "alice", "111")
		gone := uuid.New()
		require.NoError(t, env.accounts.SetActiveFolder(ctx, alice.ID, &gone))

		_, err := env.uploads.Upload(ctx, "111", photoRequest("x"))

		assert.ErrorIs(t, err, domain.ErrFolderNotOwned)
		assert.Zero(t, env.blobHost.RelayCount())
	})

	t.Run("unsupported attachment", func(t *testing.T) {
		env := newTestEnv(t)
		openedFolder(t, env)

		_, err := env.uploads.Upload(ctx, "111", domain.UploadRequest{
			Platform:   domain.PlatformTelegram,
			Attachment: &domain.Attachment{Kind: domain.AttachmentDocument, FileID: "doc", MimeType: "application/pdf"},
		})

		assert.ErrorIs(t, err, domain.ErrUnsupportedAttachment)
		assert.Zero(t, env.blobHost.RelayCount())
	})
}

func TestUploadServiceRelaysLargestPhotoWithCaption(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice, folder := openedFolder(t, env)

	file, err := env.uploads.Upload(ctx, "111", photoRequest("beach.jpg"))
	require.NoError(t, err)

	require.Equal(t, 1, env.blobHost.RelayCount())
	request := env.blobHost.Requests[0]
	assert.Equal(t, "photo-large", request.Image.FileID)
	assert.Equal(t, domain.PlatformTelegram, request.Image.Platform)
	assert.Equal(t, "User:alice Folder:"+folder.ID.String()+" Name:beach.jpg", request.Caption)

	assert.Equal(t, "beach.jpg", file.Name)
	assert.Equal(t, alice.ID, file.OwnerID)
	assert.Equal(t, folder.ID, file.FolderID)
	assert.NotZero(t, file.BlobMessageID)
	assert.Equal(t, "channel-photo-large", file.BlobFileID)
}

func TestUploadServiceDefaultLabel(t *testing.T) {
	env := newTestEnv(t)
	openedFolder(t, env)

	file, err := env.uploads.Upload(context.Background(), "111", photoRequest("  "))
	require.NoError(t, err)

	assert.Equal(t, DefaultFileLabel, file.Name)
	assert.Contains(t, env.blobHost.Requests[0].Caption, "Name:Uploaded Image")
}

func TestUploadServiceClipsLongCaption(t *testing.T) {
	env := newTestEnv(t)
	openedFolder(t, env)

	caption := strings.Repeat("é", 1000)
	file, err := env.uploads.Upload(context.Background(), "111", photoRequest(caption))
	require.NoError(t, err)

	assert.Equal(t, maxFileLabelRunes, utf8.RuneCountInString(file.Name))
	assert.True(t, strings.HasPrefix(caption, file.Name))

	relayed := env.blobHost.Requests[0].Caption
	assert.True(t, strings.HasSuffix(relayed, "Name:"+file.Name))
	assert.LessOrEqual(t, utf8.RuneCountInString(relayed), 1024)
}

func TestFileLabel(t *testing.T) {
	assert.Equal(t, "beach.jpg", fileLabel("  beach.jpg "))
	assert.Equal(t, DefaultFileLabel, fileLabel(""))
	assert.Equal(t, strings.Repeat("a", maxFileLabelRunes), fileLabel(strings.Repeat("a", 300)))
	assert.Equal(t, "a", fileLabel("a"+strings.Repeat(" ", 300)+"b"))
}

func TestUploadServiceRelayFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable passes through", func(t *testing.T) {
		env := newTestEnv(t)
		openedFolder(t, env)
		env.blobHost.RelayFunc = func(context.Context, domain.RelayRequest) (*domain.BlobPointer, error) {
			return nil, domain.ErrBlobHostUnavailable
		}

		_, err := env.uploads.Upload(ctx, "111", photoRequest("x"))

		assert.ErrorIs(t, err, domain.ErrBlobHostUnavailable)
		assert.NotErrorIs(t, err, domain.ErrBlobRelayFailed)
		assert.Equal(t, 1, env.blobHost.RelayCount())
		assert.Zero(t, env.folders.CreateFileCalls)
	})

	t.Run("other failures are wrapped", func(t *testing.T) {
		env := newTestEnv(t)
		openedFolder(t, env)
		env.blobHost.RelayFunc = func(context.Context, domain.RelayRequest) (*domain.BlobPointer, error) {
			return nil, errors.New("timeout")
		}

		_, err := env.uploads.Upload(ctx, "111", photoRequest("x"))

		assert.ErrorIs(t, err, domain.ErrBlobRelayFailed)
		assert.Equal(t, domain.KindExternal, domain.KindOf(err))
		assert.Zero(t, env.folders.CreateFileCalls)
	})
}

func TestUploadServiceRecordFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate record", func(t *testing.T) {
		env := newTestEnv(t)
		openedFolder(t, env)
		env.blobHost.RelayFunc = func(context.Context, domain.RelayRequest) (*domain.BlobPointer, error) {
			return &domain.BlobPointer{MessageID: 7, FileID: "f"}, nil
		}

		_, err := env.uploads.Upload(ctx, "111", photoRequest("a"))
		require.NoError(t, err)
		_, err = env.uploads.Upload(ctx, "111", photoRequest("b"))

		assert.ErrorIs(t, err, domain.ErrDuplicateRecord)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("store failure is unclassified", func(t *testing.T) {
		env := newTestEnv(t)
		openedFolder(t, env)
		env.folders.CreateFileFunc = func(context.Context, *domain.File) error { return errors.New("db down") }

		_, err := env.uploads.Upload(ctx, "111", photoRequest("a"))

		assert.Error(t, err)
		assert.Equal(t, domain.KindUnclassified, domain.KindOf(err))
		assert.Equal(t, 1, env.blobHost.RelayCount())
	})
}

func TestMonotonicClockIsStrictlyIncreasing(t *testing.T) {
	frozen := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := newMonotonicClock(func() time.Time { return frozen })

	first := clock.Now()
	second := clock.Now()

	assert.Equal(t, frozen, first)
	assert.True(t, second.After(first))
	assert.Equal(t, time.Microsecond, second.Sub(first))
}
