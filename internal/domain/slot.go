package domain

import (
	"time"

	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

// Slot represents a bookable time slot offered to the customer
type Slot struct {
	Time    types.TimeString // Local start time label, e.g. "10:00"
	StartAt time.Time
	EndAt   time.Time
}

// Duration returns the slot length
func (s *Slot) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}
