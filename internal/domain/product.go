package domain

import "time"

type Product struct {
	ID        string  `bson:"_id,omitempty" json:"id"`
	Title     string  `bson:"title" json:"title"`
	Slug      string  `bson:"slug" json:"slug"`
	Price     float64 `bson:"price" json:"price"`
	SalePrice float64 `bson:"sale_price,omitempty" json:"sale_price,omitempty"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Category  string  `bson:"category,omitempty" json:"category,omitempty"`
}

type Review struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ProductID string    `bson:"product_id" json:"product_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Rating    int       `bson:"rating" json:"rating"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
