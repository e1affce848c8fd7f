package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yralfoods/donut-shop/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found")
)

// AccountRepository manages user profiles, their embedded address books and
// the remembered store selection.
type AccountRepository interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *domain.UserProfile) error
	AddAddress(ctx context.Context, userID string, kind domain.AddressKind, addr domain.Address) error
	RemoveAddress(ctx context.Context, userID string, kind domain.AddressKind, addr domain.Address) error
	SetSelectedStore(ctx context.Context, userID, storeID string) error
}

type mongoAccountRepository struct {
	collection *mongo.Collection
}

func NewMongoAccountRepository(db *mongo.Database) AccountRepository {
	return &mongoAccountRepository{
		collection: db.Collection("users"),
	}
}

func addressField(kind domain.AddressKind) string {
	if kind == domain.AddressKindBilling {
		return "billing_addresses"
	}
	return "shipping_addresses"
}

func (m *mongoAccountRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := m.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (m *mongoAccountRepository) UpsertProfile(ctx context.Context, profile *domain.UserProfile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	filter := bson.M{"_id": profile.ID}
	update := bson.M{"$set": profile}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (m *mongoAccountRepository) AddAddress(ctx context.Context, userID string, kind domain.AddressKind, addr domain.Address) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$push": bson.M{addressField(kind): addr}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveAddress pulls the stored entry matching addr exactly, field by field.
func (m *mongoAccountRepository) RemoveAddress(ctx context.Context, userID string, kind domain.AddressKind, addr domain.Address) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$pull": bson.M{addressField(kind): addr}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	if result.ModifiedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (m *mongoAccountRepository) SetSelectedStore(ctx context.Context, userID, storeID string) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"selected_store_id": storeID}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set selected store: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
