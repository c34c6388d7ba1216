package timegrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey_UsesGridLocation(t *testing.T) {
	bucharest, err := time.LoadLocation("Europe/Bucharest")
	require.NoError(t, err)

	grid := New(bucharest)

	// 2025-06-30 23:30 UTC is already 2025-07-01 02:30 in Bucharest (UTC+3)
	instant := time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-01", grid.DayKey(instant))

	utcGrid := New(time.UTC)
	assert.Equal(t, "2025-06-30", utcGrid.DayKey(instant))
}

func TestWeekdayKey(t *testing.T) {
	grid := New(time.UTC)

	tests := []struct {
		dateKey string
		want    string
	}{
		{"2025-10-12", "0"}, // Sunday
		{"2025-10-13", "1"}, // Monday
		{"2025-10-15", "3"}, // Wednesday
		{"2025-10-18", "6"}, // Saturday
	}

	for _, tt := range tests {
		got, err := grid.WeekdayKey(tt.dateKey)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "dateKey=%s", tt.dateKey)
	}
}

func TestWeekdayKey_DSTTransitionDay(t *testing.T) {
	// В эту ночь в Бухаресте часы переводятся на летнее время
	bucharest, err := time.LoadLocation("Europe/Bucharest")
	require.NoError(t, err)

	grid := New(bucharest)

	got, err := grid.WeekdayKey("2025-03-30")
	require.NoError(t, err)
	assert.Equal(t, "0", got) // Sunday, несмотря на сдвиг часов
}

func TestStartOfDay_HalfOpenRange(t *testing.T) {
	grid := New(time.UTC)

	start, err := grid.StartOfDay("2025-10-15")
	require.NoError(t, err)
	next, err := grid.StartOfNextDay("2025-10-15")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, next.Sub(start))
}

func TestCombine(t *testing.T) {
	grid := New(time.UTC)

	got, err := grid.Combine("2025-10-15", "09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC), got)
}

func TestCombine_InvalidInputs(t *testing.T) {
	grid := New(time.UTC)

	_, err := grid.Combine("15-10-2025", "09:30")
	assert.ErrorIs(t, err, ErrInvalidDateKey)

	_, err = grid.Combine("2025-10-15", "9h30")
	assert.Error(t, err)
}

func TestAddDays(t *testing.T) {
	grid := New(time.UTC)

	got, err := grid.AddDays("2025-12-30", 3)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02", got)
}

func TestAddMinutes(t *testing.T) {
	base := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 10, 15, 9, 45, 0, 0, time.UTC), AddMinutes(base, 45))
	assert.Equal(t, time.Date(2025, 10, 15, 8, 50, 0, 0, time.UTC), AddMinutes(base, -10))
}
