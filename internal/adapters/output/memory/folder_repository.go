package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure FolderRepository implements output.FolderRepository
var _ output.FolderRepository = (*FolderRepository)(nil)

type folderRecord struct {
	folder domain.Folder
	seq    uint64
}

type fileRecord struct {
	file domain.File
	seq  uint64
}

// FolderRepository struct - Output adapter keeping folders and files in process memory.
// Ties on timestamps are broken by insertion order so listings stay newest first.
type FolderRepository struct {
	mu      sync.RWMutex
	seq     uint64
	folders map[uuid.UUID]folderRecord
	files   map[uuid.UUID][]fileRecord // by folder
}

// NewFolderRepository func
func NewFolderRepository() *FolderRepository {
	return &FolderRepository{
		folders: make(map[uuid.UUID]folderRecord),
		files:   make(map[uuid.UUID][]fileRecord),
	}
}

// CreateFolder func
func (r *FolderRepository) CreateFolder(ctx context.Context, folder *domain.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.folders {
		if rec.folder.OwnerID == folder.OwnerID && rec.folder.Name == folder.Name {
			return domain.ErrDuplicateFolder
		}
	}

	id, err := domain.EnsureID(folder.ID)
	if err != nil {
		return err
	}
	folder.ID = id
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}

	r.seq++
	r.folders[id] = folderRecord{folder: *folder, seq: r.seq}
	return nil
}

// FindFoldersByOwner func
func (r *FolderRepository) FindFoldersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]folderRecord, 0)
	for _, rec := range r.folders {
		if rec.folder.OwnerID == ownerID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.folder.CreatedAt.Equal(b.folder.CreatedAt) {
			return a.folder.CreatedAt.After(b.folder.CreatedAt)
		}
		return a.seq > b.seq
	})

	folders := make([]domain.Folder, 0, len(records))
	for _, rec := range records {
		folders = append(folders, rec.folder)
	}
	return folders, nil
}

// FindFolder func
func (r *FolderRepository) FindFolder(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.folders {
		if rec.folder.OwnerID == ownerID && rec.folder.Name == name {
			folder := rec.folder
			return &folder, nil
		}
	}
	return nil, nil
}

// FindFolderByIDAndOwner func
func (r *FolderRepository) FindFolderByIDAndOwner(ctx context.Context, folderID, ownerID uuid.UUID) (*domain.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.folders[folderID]
	if !ok || rec.folder.OwnerID != ownerID {
		return nil, nil
	}
	folder := rec.folder
	return &folder, nil
}

// CreateFile func
func (r *FolderRepository) CreateFile(ctx context.Context, file *domain.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.files[file.FolderID] {
		if rec.file.BlobMessageID == file.BlobMessageID {
			return domain.ErrDuplicateRecord
		}
	}

	id, err := domain.EnsureID(file.ID)
	if err != nil {
		return err
	}
	file.ID = id
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now()
	}

	r.seq++
	r.files[file.FolderID] = append(r.files[file.FolderID], fileRecord{file: *file, seq: r.seq})
	return nil
}

// FindFilesByFolder func
func (r *FolderRepository) FindFilesByFolder(ctx context.Context, ownerID, folderID uuid.UUID) ([]domain.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]fileRecord, 0)
	for _, rec := range r.files[folderID] {
		if rec.file.OwnerID == ownerID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.file.UploadedAt.Equal(b.file.UploadedAt) {
			return a.file.UploadedAt.After(b.file.UploadedAt)
		}
		return a.seq > b.seq
	})

	files := make([]domain.File, 0, len(records))
	for _, rec := range records {
		files = append(files, rec.file)
	}
	return files, nil
}
