package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yralfoods/donut-shop/internal/domain"
)

var (
	ErrEntryNotFound = errors.New("cart entry not found")
)

// CartRepository defines the interface for signed-in cart storage: one
// document per cart entry, keyed by the owning user.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	ItemsForUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	AddEntry(ctx context.Context, item domain.CartItem) (string, error)
	UpdateQuantity(ctx context.Context, userID, entryID string, quantity int) error
	RemoveEntry(ctx context.Context, userID, entryID string) error
}

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("cart_items"),
	}
}

func (m *mongoCartRepository) ItemsForUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	filter := bson.M{"user_id": userID}
	cursor, err := m.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query cart entries: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart entries: %w", err)
	}
	return items, nil
}

func (m *mongoCartRepository) AddEntry(ctx context.Context, item domain.CartItem) (string, error) {
	item.EntryID = uuid.NewString()
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}

	if _, err := m.collection.InsertOne(ctx, item); err != nil {
		return "", fmt.Errorf("failed to add cart entry: %w", err)
	}
	return item.EntryID, nil
}

func (m *mongoCartRepository) UpdateQuantity(ctx context.Context, userID, entryID string, quantity int) error {
	filter := bson.M{"_id": entryID, "user_id": userID}
	update := bson.M{"$set": bson.M{"quantity": quantity}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update entry quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (m *mongoCartRepository) RemoveEntry(ctx context.Context, userID, entryID string) error {
	filter := bson.M{"_id": entryID, "user_id": userID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove cart entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (m *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "added_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
