package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yralfoods/donut-shop/internal/domain"
)

var ErrStoreNotFound = errors.New("store not found")

// StoreRepository reads fulfillment locations and their work hours.
type StoreRepository interface {
	ListStores(ctx context.Context) ([]domain.StoreLocation, error)
	GetStore(ctx context.Context, id string) (*domain.StoreLocation, error)
}

type mongoStoreRepository struct {
	collection *mongo.Collection
}

func NewMongoStoreRepository(db *mongo.Database) StoreRepository {
	return &mongoStoreRepository{
		collection: db.Collection("stores"),
	}
}

func (m *mongoStoreRepository) ListStores(ctx context.Context) ([]domain.StoreLocation, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer cursor.Close(ctx)

	var stores []domain.StoreLocation
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, fmt.Errorf("failed to decode stores: %w", err)
	}
	return stores, nil
}

func (m *mongoStoreRepository) GetStore(ctx context.Context, id string) (*domain.StoreLocation, error) {
	var store domain.StoreLocation
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&store)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return &store, nil
}
