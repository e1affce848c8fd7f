package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "COD"
	PaymentMethodCard PaymentMethod = "CARD"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Order is the durable record of a completed checkout. OrderNumber is a
// cosmetic 6-digit figure shown to the shopper; the document id is the key.
type Order struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	UserID          string        `bson:"user_id" json:"user_id"`
	OrderNumber     int           `bson:"order_number" json:"order_number"`
	StoreID         string        `bson:"store_id" json:"store_id"`
	StoreName       string        `bson:"store_name" json:"store_name"`
	Subtotal        float64       `bson:"subtotal" json:"subtotal"`
	Tax             float64       `bson:"tax" json:"tax"`
	ShippingCost    float64       `bson:"shipping_cost" json:"shipping_cost"`
	Discount        float64       `bson:"discount" json:"discount"`
	Total           float64       `bson:"total" json:"total"`
	ItemCount       int           `bson:"item_count" json:"item_count"`
	CouponCode      string        `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	PaymentMethod   PaymentMethod `bson:"payment_method" json:"payment_method"`
	PaymentToken    string        `bson:"payment_token,omitempty" json:"payment_token,omitempty"`
	ShippingAddress Address       `bson:"shipping_address" json:"shipping_address"`
	BillingAddress  Address       `bson:"billing_address" json:"billing_address"`
	DeliveryType    string        `bson:"delivery_type" json:"delivery_type"`
	Email           string        `bson:"email,omitempty" json:"email,omitempty"`
	Status          OrderStatus   `bson:"status" json:"status"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
}

// OrderItem is one child record per cart line, immutable once written.
// StoreID is duplicated onto each item for downstream per-store filtering.
type OrderItem struct {
	ID        string  `bson:"_id,omitempty" json:"id"`
	OrderID   string  `bson:"order_id" json:"order_id"`
	ProductID string  `bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	SalePrice float64 `bson:"sale_price,omitempty" json:"sale_price,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	StoreID   string  `bson:"store_id" json:"store_id"`
}
