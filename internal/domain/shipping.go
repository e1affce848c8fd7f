package domain

// DeliveryRule is a named delivery or pickup option with a fixed cost,
// scoped by destination country. Read-only from the checkout's perspective.
type DeliveryRule struct {
	ID           string  `bson:"_id,omitempty" json:"id"`
	Country      string  `bson:"country" json:"country"`
	ShippingType string  `bson:"shipping_type" json:"shipping_type"`
	Amount       float64 `bson:"amount" json:"amount"`
}
