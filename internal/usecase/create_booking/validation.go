package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	"github.com/smartbooking-ai/smartbooking/internal/timegrid"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Origin != OriginPublic && req.Origin != OriginDashboard {
		return fmt.Errorf("%w: unknown origin %q", ErrInvalidInput, req.Origin)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.CustomerPhone != nil && strings.TrimSpace(*req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer phone must not be blank", ErrInvalidInput)
	}

	return nil
}

// validatePhonePolicy проверяет обязательность номера телефона.
// Дашборд всегда требует номер, публичная форма — по настройке бизнеса.
func validatePhonePolicy(req *Request, settings *domain.Settings) error {
	if req.CustomerPhone != nil {
		return nil
	}
	if req.Origin == OriginDashboard || settings.RequirePhone {
		return ErrPhoneRequired
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

// validateWorkingWindow проверяет, что бронирование [start, end) целиком
// попадает в рабочие часы дня
func validateWorkingWindow(grid *timegrid.Grid, dateKey string, hours *domain.DayHours, start, end time.Time) error {
	if hours == nil || !hours.IsValid() {
		return ErrBusinessClosed
	}

	openAt, err := grid.Combine(dateKey, hours.Open)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	closeAt, err := grid.Combine(dateKey, hours.Close)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if start.Before(openAt) || end.After(closeAt) {
		return ErrBusinessClosed
	}

	return nil
}

// validateMinNotice проверяет, что до начала бронирования осталось
// не меньше минимального уведомления. Сравнение абсолютных моментов:
// уведомление в часах работает и через границу суток.
func validateMinNotice(start, now time.Time, notice time.Duration) error {
	if start.Before(now.Add(notice)) {
		return ErrTooSoon
	}
	return nil
}
