package domain

import "time"

// Customer represents a person who booked (or tried to book) an appointment.
// Phone is the identity key used by the booking workflow; the data layer does
// not enforce uniqueness on it.
type Customer struct {
	ID        int64
	Name      string
	Phone     *string
	Email     *string
	CreatedAt time.Time
}

// HasPhone returns true if the customer carries a deduplication key
func (c *Customer) HasPhone() bool {
	return c.Phone != nil && *c.Phone != ""
}
