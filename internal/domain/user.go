package domain

import "time"

// UserProfile is the account document. Address books are embedded arrays;
// the selected store id is remembered across visits.
type UserProfile struct {
	ID                string    `bson:"_id,omitempty" json:"id"`
	Email             string    `bson:"email" json:"email"`
	Name              string    `bson:"name,omitempty" json:"name,omitempty"`
	ShippingAddresses []Address `bson:"shipping_addresses,omitempty" json:"shipping_addresses,omitempty"`
	BillingAddresses  []Address `bson:"billing_addresses,omitempty" json:"billing_addresses,omitempty"`
	SelectedStoreID   string    `bson:"selected_store_id,omitempty" json:"selected_store_id,omitempty"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

// Session identifies who is acting: an authenticated account or an anonymous
// guest device. Exactly one of the two ids is set.
type Session struct {
	UserID  string
	GuestID string
}

// Authenticated reports whether the session belongs to a signed-in account.
func (s Session) Authenticated() bool { return s.UserID != "" }

// Owner is the identifier stamped on records the session creates.
func (s Session) Owner() string {
	if s.UserID != "" {
		return s.UserID
	}
	return s.GuestID
}
