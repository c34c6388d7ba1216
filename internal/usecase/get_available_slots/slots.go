package get_available_slots

import (
	"time"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	"github.com/smartbooking-ai/smartbooking/internal/timegrid"
	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

// busyInterval занятый интервал календаря, уже расширенный буфером
type busyInterval struct {
	start time.Time
	end   time.Time
}

// computeSlots вычисляет доступные слоты дня.
// Чистая функция: все входы переданы явно, результат детерминирован.
//
// Кандидаты генерируются от открытия с шагом intervalMinutes, пока слот
// целиком помещается до закрытия. Кандидат доступен, если начинается
// не раньше notBefore и его интервал [start, end) не пересекается ни с одним
// занятым интервалом. Занятые интервалы — неотмененные бронирования дня,
// расширенные на bufferMinutes с обеих сторон.
//
// Вырожденная конфигурация (неположительный шаг или длительность,
// открытие не раньше закрытия) дает пустой список, а не ошибку.
func computeSlots(
	grid *timegrid.Grid,
	dateKey string,
	hours domain.DayHours,
	durationMinutes int,
	intervalMinutes int,
	bufferMinutes int,
	notBefore time.Time,
	bookings []*domain.Booking,
) ([]domain.Slot, error) {
	if durationMinutes <= 0 || intervalMinutes <= 0 {
		return []domain.Slot{}, nil
	}

	openAt, err := grid.Combine(dateKey, hours.Open)
	if err != nil {
		return nil, err
	}
	closeAt, err := grid.Combine(dateKey, hours.Close)
	if err != nil {
		return nil, err
	}

	if !openAt.Before(closeAt) {
		return []domain.Slot{}, nil
	}

	busy := buildBusyIntervals(bookings, bufferMinutes)

	slots := make([]domain.Slot, 0)
	for cur := openAt; !timegrid.AddMinutes(cur, durationMinutes).After(closeAt); cur = timegrid.AddMinutes(cur, intervalMinutes) {
		end := timegrid.AddMinutes(cur, durationMinutes)

		if cur.Before(notBefore) {
			continue
		}

		if overlapsAny(cur, end, busy) {
			continue
		}

		slots = append(slots, domain.Slot{
			Time:    types.NewTimeString(cur.In(grid.Location())),
			StartAt: cur,
			EndAt:   end,
		})
	}

	return slots, nil
}

// buildBusyIntervals расширяет каждое активное бронирование буфером
// с обеих сторон
func buildBusyIntervals(bookings []*domain.Booking, bufferMinutes int) []busyInterval {
	busy := make([]busyInterval, 0, len(bookings))
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		busy = append(busy, busyInterval{
			start: timegrid.AddMinutes(booking.StartAt, -bufferMinutes),
			end:   timegrid.AddMinutes(booking.EndAt, bufferMinutes),
		})
	}
	return busy
}

// overlapsAny проверяет пересечение кандидата [start, end) с занятыми интервалами.
// Пересечение строгое: интервалы, которые только граничат, не конфликтуют.
func overlapsAny(start, end time.Time, busy []busyInterval) bool {
	for _, b := range busy {
		if start.Before(b.end) && end.After(b.start) {
			return true
		}
	}
	return false
}
