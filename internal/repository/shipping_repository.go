package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yralfoods/donut-shop/internal/domain"
)

// ShippingRepository reads the delivery-rule table. Rules are keyed by the
// destination country of the selected shipping address.
type ShippingRepository interface {
	RulesForCountry(ctx context.Context, country string) ([]domain.DeliveryRule, error)
}

type mongoShippingRepository struct {
	collection *mongo.Collection
}

func NewMongoShippingRepository(db *mongo.Database) ShippingRepository {
	return &mongoShippingRepository{
		collection: db.Collection("shipping_rules"),
	}
}

func (m *mongoShippingRepository) RulesForCountry(ctx context.Context, country string) ([]domain.DeliveryRule, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"country": country})
	if err != nil {
		return nil, fmt.Errorf("failed to query shipping rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []domain.DeliveryRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode shipping rules: %w", err)
	}
	return rules, nil
}
