package application

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picturedrive/internal/domain"
)

func TestFolderServiceCreateFolder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.loggedIn(t, "alice", "111")
	bob := env.loggedIn(t, "bob", "222")

	folder, err := env.folderSvc.CreateFolder(ctx, alice.ID, "  Trip ")
	require.NoError(t, err)
	assert.Equal(t, "Trip", folder.Name)
	assert.Equal(t, alice.ID, folder.OwnerID)

	_, err = env.folderSvc.CreateFolder(ctx, alice.ID, "Trip")
	assert.ErrorIs(t, err, domain.ErrDuplicateFolder)

	_, err = env.folderSvc.CreateFolder(ctx, bob.ID, "Trip")
	assert.NoError(t, err)

	_, err = env.folderSvc.CreateFolder(ctx, alice.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrFolderNameEmpty)

	_, err = env.folderSvc.CreateFolder(ctx, alice.ID, strings.Repeat("é", 65))
	assert.ErrorIs(t, err, domain.ErrFolderNameTooLong)

	_, err = env.folderSvc.CreateFolder(ctx, alice.ID, strings.Repeat("é", 64))
	assert.NoError(t, err)
}

func TestFolderServiceCreationTimesNeverTie(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.loggedIn(t, "alice", "111")

	var created []*domain.Folder
	for i := 0; i < 20; i++ {
		folder, err := env.folderSvc.CreateFolder(ctx, alice.ID, fmt.Sprintf("F%02d", i))
		require.NoError(t, err)
		created = append(created, folder)
	}
	for i := 1; i < len(created); i++ {
		assert.True(t, created[i].CreatedAt.After(created[i-1].CreatedAt), "folder %d", i)
		assert.Equal(t, created[i].CreatedAt, created[i].CreatedAt.Truncate(time.Microsecond))
	}

	folders, err := env.folderSvc.ListFolders(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "F19", folders[0].Name)
	assert.Equal(t, "F00", folders[19].Name)
}

func TestFolderServiceListFolders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.loggedIn(t, "alice", "111")

	folders, err := env.folderSvc.ListFolders(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, folders)
	assert.Empty(t, folders)

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := env.folderSvc.CreateFolder(ctx, alice.ID, name)
		require.NoError(t, err)
	}

	folders, err = env.folderSvc.ListFolders(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, folders, 3)
	assert.Equal(t, "Three", folders[0].Name)
	assert.Equal(t, "One", folders[2].Name)
}

func TestFolderServiceOpenFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("not found leaves pointer unchanged", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.loggedIn(t, "alice", "111")
		_, err := env.folderSvc.CreateFolder(ctx, alice.ID, "Trip")
		require.NoError(t, err)
		opened, err := env.folderSvc.OpenFolder(ctx, alice.ID, "Trip")
		require.NoError(t, err)

		_, err = env.folderSvc.OpenFolder(ctx, alice.ID, "Nope")

		assert.ErrorIs(t, err, domain.ErrFolderNotFound)
		stored := env.account(t, "alice")
		require.NotNil(t, stored.ActiveFolderID)
		assert.Equal(t, opened.Folder.ID, *stored.ActiveFolderID)
	})

	t.Run("another owner's folder is not found", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.loggedIn(t, "alice", "111")
		bob := env.loggedIn(t, "bob", "222")
		_, err := env.folderSvc.CreateFolder(ctx, bob.ID, "Private")
		require.NoError(t, err)

		_, err = env.folderSvc.OpenFolder(ctx, alice.ID, "Private")

		assert.ErrorIs(t, err, domain.ErrFolderNotFound)
		assert.Nil(t, env.account(t, "alice").ActiveFolderID)
	})

	t.Run("sets pointer and returns files newest first", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.loggedIn(t, "alice", "111")
		_, err := env.folderSvc.CreateFolder(ctx, alice.ID, "Trip")
		require.NoError(t, err)

		opened, err := env.folderSvc.OpenFolder(ctx, alice.ID, "Trip")
		require.NoError(t, err)
		assert.NotNil(t, opened.Files)
		assert.Empty(t, opened.Files)

		for _, caption := range []string{"first", "second"} {
			_, err := env.uploads.Upload(ctx, "111", domain.UploadRequest{
				Platform:   domain.PlatformTelegram,
				Attachment: photoEvent("111", "").Attachment,
				Caption:    caption,
			})
			require.NoError(t, err)
		}

		opened, err = env.folderSvc.OpenFolder(ctx, alice.ID, "Trip")
		require.NoError(t, err)
		require.Len(t, opened.Files, 2)
		assert.Equal(t, "second", opened.Files[0].Name)
		assert.Equal(t, "first", opened.Files[1].Name)
	})
}

func TestFolderServiceVerifyOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.loggedIn(t, "alice", "111")
	bob := env.loggedIn(t, "bob", "222")
	folder, err := env.folderSvc.CreateFolder(ctx, alice.ID, "Trip")
	require.NoError(t, err)

	verified, err := env.folderSvc.VerifyOwnership(ctx, alice.ID, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, verified.ID)

	_, err = env.folderSvc.VerifyOwnership(ctx, bob.ID, folder.ID)
	assert.ErrorIs(t, err, domain.ErrFolderNotOwned)

	_, err = env.folderSvc.VerifyOwnership(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrFolderNotOwned)
}
