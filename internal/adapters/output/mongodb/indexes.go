package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names
const (
	CollectionAccounts = "accounts"
	CollectionFolders  = "folders"
	CollectionFiles    = "files"
)

// IndexDefinition describes a MongoDB index to be created
type IndexDefinition struct {
	Collection string
	Name       string
	Keys       bson.D
	Unique     bool
}

// IndexDefinitions returns every index the repositories rely on. The unique
// ones back the duplicate checks of the domain.
func IndexDefinitions() []IndexDefinition {
	return []IndexDefinition{
		{CollectionAccounts, "uniq_accounts_username", bson.D{{Key: "username", Value: 1}}, true},
		{CollectionAccounts, "idx_accounts_session", bson.D{{Key: "participant_id", Value: 1}, {Key: "authenticated", Value: 1}}, false},
		{CollectionFolders, "uniq_folders_owner_name", bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}}, true},
		{CollectionFolders, "idx_folders_owner_created", bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at_us", Value: -1}}, false},
		{CollectionFiles, "uniq_files_folder_blob", bson.D{{Key: "folder_id", Value: 1}, {Key: "blob_message_id", Value: 1}}, true},
		{CollectionFiles, "idx_files_owner_folder_uploaded", bson.D{{Key: "owner_id", Value: 1}, {Key: "folder_id", Value: 1}, {Key: "uploaded_at_us", Value: -1}}, false},
	}
}

// EnsureIndexes creates all indexes. Calling it again is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idx := range IndexDefinitions() {
		model := mongo.IndexModel{
			Keys:    idx.Keys,
			Options: options.Index().SetName(idx.Name).SetUnique(idx.Unique),
		}
		if _, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index %s on collection %s: %w", idx.Name, idx.Collection, err)
		}
	}
	return nil
}
