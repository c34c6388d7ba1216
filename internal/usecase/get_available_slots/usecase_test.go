package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	serviceRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/service"
	settingsRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/settings"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) ListForRange(_ context.Context, from, to time.Time) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if !b.StartAt.Before(from) && b.StartAt.Before(to) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeSettingsRepo struct {
	settings *domain.Settings
	err      error
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testSettings() *domain.Settings {
	s := domain.DefaultSettings()
	s.Timezone = "UTC"
	s.SlotIntervalMinutes = 30
	s.BufferMinutes = 10
	s.MaxDaysAhead = 30
	s.MinNoticeHours = 0
	s.WorkingHours = domain.WorkingHours{
		"3": {Open: "09:00", Close: "12:00"}, // Wednesday only
	}
	return s
}

func newTestUseCase(bookings *fakeBookingRepo, settings *domain.Settings, now time.Time) *UseCase {
	uc := NewUseCase(
		bookings,
		&fakeServiceRepo{services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Consultation", DurationMinutes: 30, Active: true},
			2: {ID: 2, Name: "Archived", DurationMinutes: 30, Active: false},
		}},
		&fakeSettingsRepo{settings: settings},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_ReturnsSlotsAroundBooking(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	grid := testGrid(t)

	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(t, grid, "10:00", "10:30", domain.StatusConfirmed),
	}}

	uc := newTestUseCase(bookings, testSettings(), now)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, testDate, resp.Date)
	assert.Equal(t, "Consultation", resp.ServiceName)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, []string{"09:00", "11:00", "11:30"}, slotTimes(resp.Slots))
}

func TestExecute_DurationOverride(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, testSettings(), now)

	// Длительность из запроса вместо длительности услуги (30 мин):
	// часовой слот 11:30 уже не помещается до закрытия в 12:00
	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testDate, DurationMinutes: 60})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, slotTimes(resp.Slots))

	// Без переопределения действует длительность услуги
	resp, err = uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Len(t, resp.Slots, 6)
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(&fakeBookingRepo{}, testSettings(), now)

	// 2025-10-16 is Thursday, hours only cover Wednesday
	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: "2025-10-16"})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
}

func TestExecute_MinNoticeAppliesAsAbsoluteInstant(t *testing.T) {
	// Вечер накануне: минимальное уведомление сравнивается как абсолютный
	// момент и срезает утренние слоты следующего дня
	now := time.Date(2025, 10, 14, 22, 0, 0, 0, time.UTC)

	settings := testSettings()
	settings.MinNoticeHours = 11 // now+11h = 09:00 on the 15th

	uc := newTestUseCase(&fakeBookingRepo{}, settings, now)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slotTimes(resp.Slots))

	settings.MinNoticeHours = 12 // now+12h = 10:00 on the 15th
	resp, err = uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, slotTimes(resp.Slots))
}

func TestExecute_DateOutsideWindow(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, testSettings(), now)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: "2025-10-12"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 1, Date: "2025-12-31"})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_UnknownOrInactiveService(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, testSettings(), now)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 99, Date: testDate})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 2, Date: testDate})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_MissingSettingsFallsBackToDefaults(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeServiceRepo{services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Consultation", DurationMinutes: 30, Active: true},
		}},
		&fakeSettingsRepo{err: settingsRepo.ErrSettingsNotFound},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}

	// Дефолтное расписание: будни 09:00-18:00
	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "09:00", resp.Slots[0].Time.String())
}

func TestExecute_InvalidInput(t *testing.T) {
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, testSettings(), now)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 0, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 1, Date: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 1, Date: "15.10.2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 1, Date: testDate, DurationMinutes: -15})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
