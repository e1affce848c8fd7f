package domain

import "time"

// AddressKind selects which of the two address lists on a user profile an
// operation targets. Both lists hold the same shape.
type AddressKind string

const (
	AddressKindShipping AddressKind = "shipping"
	AddressKindBilling  AddressKind = "billing"
)

// Address is a named, reusable shipping or billing destination, embedded in
// the owning user document. Removal matches the stored entry exactly.
type Address struct {
	AddressID string    `bson:"address_id" json:"address_id"`
	Type      string    `bson:"type" json:"type"`
	Details   string    `bson:"details" json:"details"`
	Pin       string    `bson:"pin" json:"pin"`
	Phone     string    `bson:"phone" json:"phone"`
	Country   string    `bson:"country" json:"country"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	IsDefault bool      `bson:"is_default" json:"is_default"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
