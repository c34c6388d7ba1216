package get_available_slots

import (
	"fmt"
	"time"

	"github.com/smartbooking-ai/smartbooking/internal/timegrid"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: durationMinutes must not be negative", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что день попадает в окно бронирования [сегодня, сегодня+horizonDays]
func validateDate(grid *timegrid.Grid, dateKey string, now time.Time, horizonDays int) error {
	dayStart, err := grid.StartOfDay(dateKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	todayStart, err := grid.StartOfDay(grid.DayKey(now))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if dayStart.Before(todayStart) {
		return ErrInvalidDate
	}

	if dayStart.After(todayStart.AddDate(0, 0, horizonDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}

	return nil
}
