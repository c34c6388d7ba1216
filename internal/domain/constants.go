package domain

// Default policy values applied when the settings row carries
// absent or invalid numbers
const (
	DefaultSlotIntervalMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultMaxDaysAhead        = 30
	DefaultMinNoticeHours      = 0
)

// Business validation bounds for settings updates
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 240
	MaxBufferMinutes       = 120
	MaxMaxDaysAhead        = 365
	MaxMinNoticeHours      = 168 // 1 week
	MaxNotesLength         = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SettingsID is the id of the singleton settings row
const SettingsID = 1
