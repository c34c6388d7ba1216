package domain

import (
	"time"

	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

// DayHours is the working-hours window of one weekday.
// Invariant for a valid settings row: Open < Close.
type DayHours struct {
	Open  types.TimeString `json:"open"`
	Close types.TimeString `json:"close"`
}

// IsValid reports whether the window is well-formed and non-empty
func (d DayHours) IsValid() bool {
	return d.Open.Validate() == nil && d.Close.Validate() == nil && d.Open.IsBefore(d.Close)
}

// WorkingHours maps a weekday key ("0"=Sunday .. "6"=Saturday) to its
// working-hours window. An absent key means the business is closed that day.
type WorkingHours map[string]DayHours

// Settings is the singleton (id=1) scheduling policy of the business.
// It is read once per computation and passed down as an immutable snapshot;
// nothing in the core reads it imperatively mid-flight.
type Settings struct {
	ID            int64
	BusinessName  string
	BusinessPhone *string
	WhatsappPhone *string
	Address       *string
	Timezone      string // IANA name, e.g. "Europe/Bucharest"

	SlotIntervalMinutes int
	BufferMinutes       int
	MaxDaysAhead        int
	MinNoticeHours      int

	AllowPending bool
	RequirePhone bool

	WorkingHours WorkingHours

	UpdatedAt time.Time
}

// HoursFor returns the working-hours window for a weekday key,
// or nil when the business is closed that day
func (s *Settings) HoursFor(weekdayKey string) *DayHours {
	if s.WorkingHours == nil {
		return nil
	}
	h, ok := s.WorkingHours[weekdayKey]
	if !ok {
		return nil
	}
	return &h
}

// SlotInterval returns the slot generation step, normalised to the default
// when the stored value is absent or invalid
func (s *Settings) SlotInterval() int {
	if s.SlotIntervalMinutes <= 0 {
		return DefaultSlotIntervalMinutes
	}
	return s.SlotIntervalMinutes
}

// Buffer returns the mandatory idle gap around each booking, never negative
func (s *Settings) Buffer() int {
	if s.BufferMinutes < 0 {
		return DefaultBufferMinutes
	}
	return s.BufferMinutes
}

// MinNotice returns the minimum lead time before a bookable slot, never negative
func (s *Settings) MinNotice() time.Duration {
	if s.MinNoticeHours < 0 {
		return time.Duration(DefaultMinNoticeHours) * time.Hour
	}
	return time.Duration(s.MinNoticeHours) * time.Hour
}

// Horizon returns the booking horizon in days, normalised to the default
// when absent or invalid
func (s *Settings) Horizon() int {
	if s.MaxDaysAhead <= 0 {
		return DefaultMaxDaysAhead
	}
	return s.MaxDaysAhead
}

// Location resolves the configured business timezone.
// Falls back to the host zone when the name is empty or unknown, so a broken
// setting degrades to the pre-redesign behavior instead of failing requests.
func (s *Settings) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultSettings returns the policy used when no settings row exists yet
func DefaultSettings() *Settings {
	return &Settings{
		ID:                  SettingsID,
		BusinessName:        "SmartBooking",
		SlotIntervalMinutes: DefaultSlotIntervalMinutes,
		BufferMinutes:       DefaultBufferMinutes,
		MaxDaysAhead:        DefaultMaxDaysAhead,
		MinNoticeHours:      DefaultMinNoticeHours,
		AllowPending:        true,
		RequirePhone:        true,
		WorkingHours: WorkingHours{
			"1": {Open: "09:00", Close: "18:00"},
			"2": {Open: "09:00", Close: "18:00"},
			"3": {Open: "09:00", Close: "18:00"},
			"4": {Open: "09:00", Close: "18:00"},
			"5": {Open: "09:00", Close: "18:00"},
		},
	}
}
