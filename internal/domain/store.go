package domain

// TimeSlot is one open interval within a day, "HH:MM" 24h clock.
type TimeSlot struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// DaySchedule is the opening plan for one weekday. An unchecked day is
// closed regardless of its slots.
type DaySchedule struct {
	Checked bool       `bson:"checked" json:"checked"`
	Slots   []TimeSlot `bson:"slots" json:"slots"`
}

// WorkHours maps weekday name ("Monday", ...) to its schedule.
type WorkHours map[string]DaySchedule

// StoreLocation is a fulfillment location a shopper picks at checkout.
type StoreLocation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	StoreName string    `bson:"store_name" json:"store_name"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	WorkHours WorkHours `bson:"work_hours,omitempty" json:"work_hours,omitempty"`
}
