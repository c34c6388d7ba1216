package domain

import "time"

// Service represents a bookable service from the catalog
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Active          bool
	CreatedAt       time.Time
}

// EffectiveDuration returns the duration used for slot computation:
// the per-request override when positive, otherwise the service default,
// otherwise DefaultSlotIntervalMinutes.
func (s *Service) EffectiveDuration(overrideMinutes int) int {
	if overrideMinutes > 0 {
		return overrideMinutes
	}
	if s.DurationMinutes > 0 {
		return s.DurationMinutes
	}
	return DefaultSlotIntervalMinutes
}
