package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
)

// Compile-time check to ensure AccountRepository implements output.AccountRepository
var _ output.AccountRepository = (*AccountRepository)(nil)

// AccountRepository struct - Secondary/Driven adapter for MongoDB
type AccountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository func - Creates new MongoDB account repository
func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{collection: db.Collection(CollectionAccounts)}
}

// FindByUsername func
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByParticipant func
func (r *AccountRepository) FindByParticipant(ctx context.Context, participantID string) (*domain.Account, error) {
	return r.findOne(ctx,
		bson.M{"participant_id": participantID, "authenticated": true},
		options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	)
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOneOptions]) (*domain.Account, error) {
	var doc accountDocument
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		logrus.Errorf("Failed to find account: %v", err)
		return nil, handleMongoError(err, "account", domain.ErrDuplicateUsername)
	}
	return doc.toDomain()
}

// Create func - Inserts a new account. A taken username surfaces as domain.ErrDuplicateUsername.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	id, err := domain.EnsureID(account.ID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err = r.collection.InsertOne(ctx, accountToDocument(account))
	return handleMongoError(err, "account", domain.ErrDuplicateUsername)
}

// Save func - Replaces the stored account
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	account.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": account.ID.String()}, accountToDocument(account))
	if err != nil {
		return handleMongoError(err, "account", domain.ErrDuplicateUsername)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to save account: %s not found", account.ID)
	}
	return nil
}

// ReleaseParticipant func
func (r *AccountRepository) ReleaseParticipant(ctx context.Context, participantID string, except uuid.UUID) (int64, error) {
	filter := bson.M{
		"participant_id": participantID,
		"authenticated":  true,
		"_id":            bson.M{"$ne": except.String()},
	}
	update := bson.M{"$set": bson.M{
		"authenticated":    false,
		"active_folder_id": nil,
		"updated_at":       time.Now().UTC(),
	}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, handleMongoError(err, "account", domain.ErrDuplicateUsername)
	}
	return result.ModifiedCount, nil
}

// SetActiveFolder func - Single field update of the active folder pointer
func (r *AccountRepository) SetActiveFolder(ctx context.Context, accountID uuid.UUID, folderID *uuid.UUID) error {
	update := bson.M{"$set": bson.M{
		"active_folder_id": idString(folderID),
		"updated_at":       time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": accountID.String()}, update)
	if err != nil {
		return handleMongoError(err, "account", domain.ErrDuplicateUsername)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to set active folder: account %s not found", accountID)
	}
	return nil
}
