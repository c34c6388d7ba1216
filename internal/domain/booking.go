package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
)

// Booking represents a committed appointment in the ledger
type Booking struct {
	ID         int64
	ServiceID  int64
	CustomerID int64
	StartAt    time.Time
	EndAt      time.Time
	Status     BookingStatus
	Notes      *string

	// Reference data joined in by list queries for display
	ServiceName   string
	CustomerName  string
	CustomerPhone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies the calendar.
// Canceled bookings are excluded from every conflict computation.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCanceled
}

// IsCanceled returns true if the booking has been canceled
func (b *Booking) IsCanceled() bool {
	return b.Status == StatusCanceled
}

// ValidStatus reports whether s is one of the known booking statuses
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return true
	default:
		return false
	}
}

// BookingsFilter filters ledger queries for the dashboard
type BookingsFilter struct {
	StartDate       *time.Time     // Start of period, inclusive (optional)
	EndDate         *time.Time     // End of period, exclusive (optional)
	Status          *BookingStatus // Filter by exact status (optional)
	IncludeCanceled bool           // Include canceled bookings in the result
	Limit           int            // 0 = no limit
}
