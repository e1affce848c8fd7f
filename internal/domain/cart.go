package domain

import "time"

// CartItem is one line of a pending purchase. EntryID addresses the stored
// cart record (distinct from ProductID) and is what removal operates on.
type CartItem struct {
	EntryID   string    `bson:"_id,omitempty" json:"entry_id"`
	UserID    string    `bson:"user_id" json:"-"`
	ProductID string    `bson:"product_id" json:"product_id"`
	Name      string    `bson:"name" json:"name"`
	Price     float64   `bson:"price" json:"price"`
	SalePrice float64   `bson:"sale_price,omitempty" json:"sale_price,omitempty"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// EffectivePrice is the unit price actually charged: the sale price when one
// is set and undercuts the list price, the list price otherwise.
func (i CartItem) EffectivePrice() float64 {
	if i.SalePrice > 0 && i.SalePrice < i.Price {
		return i.SalePrice
	}
	return i.Price
}
