package timegrid

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

const (
	dateLayout = "2006-01-02"
)

var (
	// ErrInvalidDateKey возвращается при некорректном ключе даты (ожидается YYYY-MM-DD)
	ErrInvalidDateKey = errors.New("timegrid: invalid date key, expected YYYY-MM-DD")
)

// Grid чистая календарная арифметика в локальном гражданском календаре бизнеса.
// Таймзона передается явно при создании: корректность не зависит от часов хоста.
type Grid struct {
	loc *time.Location
}

// New создает Grid для указанной таймзоны. nil трактуется как time.Local.
func New(loc *time.Location) *Grid {
	if loc == nil {
		loc = time.Local
	}
	return &Grid{loc: loc}
}

// Location возвращает таймзону сетки
func (g *Grid) Location() *time.Location {
	return g.loc
}

// DayKey возвращает локальный ключ дня "YYYY-MM-DD" для момента времени
func (g *Grid) DayKey(t time.Time) string {
	return t.In(g.loc).Format(dateLayout)
}

// WeekdayKey возвращает ключ дня недели "0"(воскресенье).."6"(суббота).
// Вычисляется от локального полудня, чтобы переходы DST в полночь
// не сдвигали день.
func (g *Grid) WeekdayKey(dateKey string) (string, error) {
	y, m, d, err := g.parseDateKey(dateKey)
	if err != nil {
		return "", err
	}
	noon := time.Date(y, m, d, 12, 0, 0, 0, g.loc)
	return strconv.Itoa(int(noon.Weekday())), nil
}

// StartOfDay возвращает локальную полночь дня
func (g *Grid) StartOfDay(dateKey string) (time.Time, error) {
	y, m, d, err := g.parseDateKey(dateKey)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, d, 0, 0, 0, 0, g.loc), nil
}

// StartOfNextDay возвращает локальную полночь следующего дня.
// Вместе со StartOfDay образует полуинтервал [dayStart, nextDayStart).
func (g *Grid) StartOfNextDay(dateKey string) (time.Time, error) {
	start, err := g.StartOfDay(dateKey)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, 1), nil
}

// Combine собирает локальный момент времени из ключа дня и времени "HH:MM"
func (g *Grid) Combine(dateKey string, hhmm types.TimeString) (time.Time, error) {
	y, m, d, err := g.parseDateKey(dateKey)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := hhmm.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, g.loc), nil
}

// AddMinutes сдвигает момент времени на n минут
func AddMinutes(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Minute)
}

// AddDays возвращает ключ дня, сдвинутый на n календарных дней
func (g *Grid) AddDays(dateKey string, n int) (string, error) {
	start, err := g.StartOfDay(dateKey)
	if err != nil {
		return "", err
	}
	return start.AddDate(0, 0, n).Format(dateLayout), nil
}

// parseDateKey разбирает ключ "YYYY-MM-DD" на календарные поля
func (g *Grid) parseDateKey(dateKey string) (int, time.Month, int, error) {
	parsed, err := time.ParseInLocation(dateLayout, dateKey, g.loc)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, dateKey)
	}
	y, m, d := parsed.Date()
	return y, m, d, nil
}
