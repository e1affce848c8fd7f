package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yralfoods/donut-shop/internal/domain"
)

func TestOrderRepository_RoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewMongoOrderRepository(db)

	mongoRepo := repo.(*mongoOrderRepository)
	require.NoError(t, mongoRepo.CreateIndexes(ctx))

	order := &domain.Order{
		UserID:        "user123",
		OrderNumber:   482910,
		StoreID:       "store-1",
		StoreName:     "Downtown",
		Subtotal:      21.00,
		Tax:           1.05,
		ShippingCost:  5.00,
		Discount:      4.20,
		Total:         22.85,
		ItemCount:     2,
		CouponCode:    "SAVE20",
		PaymentMethod: domain.PaymentMethodCOD,
		DeliveryType:  "Standard",
		Status:        domain.OrderStatusPending,
		CreatedAt:     time.Now(),
	}

	orderID, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	err = repo.AddOrderItem(ctx, domain.OrderItem{
		OrderID:   orderID,
		ProductID: "prod-1",
		Name:      "Boston Cream",
		Price:     3.50,
		Quantity:  6,
		StoreID:   "store-1",
	})
	require.NoError(t, err)
	err = repo.AddOrderItem(ctx, domain.OrderItem{
		OrderID:   orderID,
		ProductID: "prod-2",
		Name:      "Maple Glazed",
		Price:     3.00,
		SalePrice: 2.50,
		Quantity:  1,
		StoreID:   "store-1",
	})
	require.NoError(t, err)

	got, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "user123", got.UserID)
	assert.Equal(t, 482910, got.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.Equal(t, 22.85, got.Total)
	assert.Equal(t, "SAVE20", got.CouponCode)

	items, err := repo.ItemsForOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, orderID, item.OrderID)
		assert.Equal(t, "store-1", item.StoreID)
		assert.NotEmpty(t, item.ID)
	}
}

func TestOrderRepository_GetOrder_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMongoOrderRepository(db)

	_, err := repo.GetOrder(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderRepository_ListForUser_NewestFirst(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewMongoOrderRepository(db)

	older := &domain.Order{UserID: "user123", Status: domain.OrderStatusPending, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &domain.Order{UserID: "user123", Status: domain.OrderStatusPending, CreatedAt: time.Now()}
	stranger := &domain.Order{UserID: "someone-else", Status: domain.OrderStatusPending, CreatedAt: time.Now()}

	olderID, err := repo.CreateOrder(ctx, older)
	require.NoError(t, err)
	newerID, err := repo.CreateOrder(ctx, newer)
	require.NoError(t, err)
	_, err = repo.CreateOrder(ctx, stranger)
	require.NoError(t, err)

	orders, err := repo.ListForUser(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newerID, orders[0].ID)
	assert.Equal(t, olderID, orders[1].ID)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewMongoOrderRepository(db)

	orderID, err := repo.CreateOrder(ctx, &domain.Order{UserID: "user123", Status: domain.OrderStatusPending, CreatedAt: time.Now()})
	require.NoError(t, err)

	err = repo.UpdateStatus(ctx, orderID, domain.OrderStatusShipped)
	require.NoError(t, err)

	got, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)

	err = repo.UpdateStatus(ctx, "nonexistent", domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
