package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	"github.com/smartbooking-ai/smartbooking/internal/timegrid"
	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

const testDate = "2025-10-15" // Wednesday

var testHours = domain.DayHours{Open: "09:00", Close: "12:00"}

func testGrid(t *testing.T) *timegrid.Grid {
	t.Helper()
	return timegrid.New(time.UTC)
}

func booking(t *testing.T, grid *timegrid.Grid, start, end string, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	startAt, err := grid.Combine(testDate, types.TimeString(start))
	require.NoError(t, err)
	endAt, err := grid.Combine(testDate, types.TimeString(end))
	require.NoError(t, err)

	return &domain.Booking{StartAt: startAt, EndAt: endAt, Status: status}
}

func slotTimes(slots []domain.Slot) []string {
	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.Time.String())
	}
	return times
}

func TestComputeSlots_EmptyDay(t *testing.T) {
	grid := testGrid(t)

	slots, err := computeSlots(grid, testDate, testHours, 30, 30, 10, time.Time{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slotTimes(slots))
}

func TestComputeSlots_BookingWithBufferBlocksNeighbors(t *testing.T) {
	grid := testGrid(t)

	bookings := []*domain.Booking{
		booking(t, grid, "10:00", "10:30", domain.StatusConfirmed),
	}

	// Буфер 10 минут превращает бронирование в занятый интервал 09:50-10:40:
	// он задевает кандидатов 09:30, 10:00 и 10:30
	slots, err := computeSlots(grid, testDate, testHours, 30, 30, 10, time.Time{}, bookings)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "11:00", "11:30"}, slotTimes(slots))
}

func TestComputeSlots_CanceledBookingFreesCapacity(t *testing.T) {
	grid := testGrid(t)

	bookings := []*domain.Booking{
		booking(t, grid, "10:00", "10:30", domain.StatusCanceled),
	}

	slots, err := computeSlots(grid, testDate, testHours, 30, 30, 10, time.Time{}, bookings)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slotTimes(slots))
}

func TestComputeSlots_TouchingIntervalsDoNotConflict(t *testing.T) {
	grid := testGrid(t)

	// Без буфера бронирование 10:00-10:30 граничит со слотами 09:30 и 10:30,
	// граница не считается пересечением
	bookings := []*domain.Booking{
		booking(t, grid, "10:00", "10:30", domain.StatusConfirmed),
	}

	slots, err := computeSlots(grid, testDate, testHours, 30, 30, 0, time.Time{}, bookings)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, slotTimes(slots))
}

func TestComputeSlots_NoticeFloorDropsEarlySlots(t *testing.T) {
	grid := testGrid(t)

	notBefore, err := grid.Combine(testDate, "10:15")
	require.NoError(t, err)

	slots, err := computeSlots(grid, testDate, testHours, 30, 30, 0, notBefore, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, slotTimes(slots))
}

func TestComputeSlots_LastSlotFitsExactly(t *testing.T) {
	grid := testGrid(t)

	// Услуга на 60 минут при шаге 30: последний кандидат 11:00-12:00
	// заканчивается ровно в закрытие и остается доступным
	slots, err := computeSlots(grid, testDate, testHours, 60, 30, 0, time.Time{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, slotTimes(slots))
}

func TestComputeSlots_ServiceLongerThanDay(t *testing.T) {
	grid := testGrid(t)

	slots, err := computeSlots(grid, testDate, testHours, 240, 30, 0, time.Time{}, nil)
	require.NoError(t, err)

	assert.Empty(t, slots)
}

func TestComputeSlots_DegenerateConfig(t *testing.T) {
	grid := testGrid(t)

	tests := []struct {
		name     string
		hours    domain.DayHours
		duration int
		interval int
	}{
		{"zero interval", testHours, 30, 0},
		{"negative interval", testHours, 30, -15},
		{"zero duration", testHours, 0, 30},
		{"open equals close", domain.DayHours{Open: "09:00", Close: "09:00"}, 30, 30},
		{"open after close", domain.DayHours{Open: "18:00", Close: "09:00"}, 30, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := computeSlots(grid, testDate, tt.hours, tt.duration, tt.interval, 0, time.Time{}, nil)
			require.NoError(t, err)
			assert.Empty(t, slots)
		})
	}
}

func TestComputeSlots_SlotsAreOrderedAndInsideDay(t *testing.T) {
	grid := testGrid(t)

	bookings := []*domain.Booking{
		booking(t, grid, "09:30", "10:00", domain.StatusPending),
		booking(t, grid, "11:00", "11:30", domain.StatusConfirmed),
	}

	slots, err := computeSlots(grid, testDate, testHours, 30, 15, 5, time.Time{}, bookings)
	require.NoError(t, err)

	openAt, err := grid.Combine(testDate, testHours.Open)
	require.NoError(t, err)
	closeAt, err := grid.Combine(testDate, testHours.Close)
	require.NoError(t, err)

	for i, slot := range slots {
		assert.False(t, slot.StartAt.Before(openAt), "slot %s starts before opening", slot.Time)
		assert.False(t, slot.EndAt.After(closeAt), "slot %s ends after closing", slot.Time)
		if i > 0 {
			assert.True(t, slots[i-1].StartAt.Before(slot.StartAt), "slots must be strictly increasing")
		}
	}
}
