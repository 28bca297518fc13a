package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure FolderRepository implements output.FolderRepository
var _ output.FolderRepository = (*FolderRepository)(nil)

// FolderRepository struct - Secondary/Driven adapter for MongoDB
type FolderRepository struct {
	folders *mongo.Collection
	files   *mongo.Collection
}

// NewFolderRepository func - Creates new MongoDB folder repository
func NewFolderRepository(db *mongo.Database) *FolderRepository {
	return &FolderRepository{
		folders: db.Collection(CollectionFolders),
		files:   db.Collection(CollectionFiles),
	}
}

// CreateFolder func
func (r *FolderRepository) CreateFolder(ctx context.Context, folder *domain.Folder) error {
	id, err := domain.EnsureID(folder.ID)
	if err != nil {
		return err
	}
	folder.ID = id
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now().UTC()
	}

	_, err = r.folders.InsertOne(ctx, folderToDocument(folder))
	return handleMongoError(err, "folder", domain.ErrDuplicateFolder)
}

// FindFoldersByOwner func
func (r *FolderRepository) FindFoldersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Folder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at_us", Value: -1}})
	cursor, err := r.folders.Find(ctx, bson.M{"owner_id": ownerID.String()}, opts)
	if err != nil {
		return nil, handleMongoError(err, "folder", domain.ErrDuplicateFolder)
	}
	defer cursor.Close(ctx)

	var docs []folderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, handleMongoError(err, "folder", domain.ErrDuplicateFolder)
	}

	folders := make([]domain.Folder, 0, len(docs))
	for i := range docs {
		folder, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		folders = append(folders, *folder)
	}
	return folders, nil
}

// FindFolder func
func (r *FolderRepository) FindFolder(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Folder, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID.String(), "name": name})
}

// FindFolderByIDAndOwner func
func (r *FolderRepository) FindFolderByIDAndOwner(ctx context.Context, folderID, ownerID uuid.UUID) (*domain.Folder, error) {
	return r.findOne(ctx, bson.M{"_id": folderID.String(), "owner_id": ownerID.String()})
}

func (r *FolderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Folder, error) {
	var doc folderDocument
	err := r.folders.FindOne(ctx, filter).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, handleMongoError(err, "folder", domain.ErrDuplicateFolder)
	}
	return doc.toDomain()
}

// CreateFile func
func (r *FolderRepository) CreateFile(ctx context.Context, file *domain.File) error {
	id, err := domain.EnsureID(file.ID)
	if err != nil {
		return err
	}
	file.ID = id
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}

	_, err = r.files.InsertOne(ctx, fileToDocument(file))
	return handleMongoError(err, "file", domain.ErrDuplicateRecord)
}

// FindFilesByFolder func
func (r *FolderRepository) FindFilesByFolder(ctx context.Context, ownerID, folderID uuid.UUID) ([]domain.File, error) {
	filter := bson.M{"owner_id": ownerID.String(), "folder_id": folderID.String()}
	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at_us", Value: -1}})
	cursor, err := r.files.Find(ctx, filter, opts)
	if err != nil {
		return nil, handleMongoError(err, "file", domain.ErrDuplicateRecord)
	}
	defer cursor.Close(ctx)

	var docs []fileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, handleMongoError(err, "file", domain.ErrDuplicateRecord)
	}

	files := make([]domain.File, 0, len(docs))
	for i := range docs {
		file, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	return files, nil
}
