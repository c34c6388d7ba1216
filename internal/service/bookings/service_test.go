package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	bookingRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/booking"
	"github.com/smartbooking-ai/smartbooking/internal/service/bookings/models"
	"github.com/smartbooking-ai/smartbooking/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings        map[int64]*domain.Booking
	listed          *domain.BookingsFilter
	updateStatusErr error
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.listed = &filter
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Status == nil && !filter.IncludeCanceled && b.IsCanceled() {
			continue
		}
		if filter.StartDate != nil && b.StartAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !b.StartAt.Before(*filter.EndDate) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

type fakeSettingsRepo struct {
	settings *domain.Settings
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	return f.settings, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeBookingRepo) *Service {
	settings := domain.DefaultSettings()
	settings.Timezone = "UTC"
	return NewService(repo, &fakeSettingsRepo{settings: settings}, nopLogger{})
}

func testBooking(id int64, start time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:           id,
		ServiceID:    1,
		CustomerID:   1,
		StartAt:      start,
		EndAt:        start.Add(30 * time.Minute),
		Status:       status,
		ServiceName:  "Consultation",
		CustomerName: "Ana Popescu",
	}
}

func TestGetByID_FormatsInBusinessTimezone(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, start, domain.StatusConfirmed),
	}}

	svc := newTestService(repo)

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "2025-10-15", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "10:30", resp.EndTime)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{bookings: map[int64]*domain.Booking{}})

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList_DayFilterExpandsToHalfOpenRange(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), domain.StatusConfirmed),
		2: testBooking(2, time.Date(2025, 10, 16, 10, 0, 0, 0, time.UTC), domain.StatusConfirmed),
	}}

	svc := newTestService(repo)

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{Date: ptr.Ptr("2025-10-15")})
	require.NoError(t, err)

	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	require.NotNil(t, repo.listed.StartDate)
	require.NotNil(t, repo.listed.EndDate)
	assert.Equal(t, 24*time.Hour, repo.listed.EndDate.Sub(*repo.listed.StartDate))
}

func TestList_CanceledHiddenByDefault(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), domain.StatusConfirmed),
		2: testBooking(2, time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC), domain.StatusCanceled),
	}}

	svc := newTestService(repo)

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = svc.List(context.Background(), &models.ListBookingsRequest{IncludeCanceled: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestList_InvalidFilter(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{bookings: map[int64]*domain.Booking{}})

	_, err := svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("unknown")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{Date: ptr.Ptr("15.10.2025")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetStatus_UnconstrainedTransitions(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), domain.StatusCanceled),
	}}

	svc := newTestService(repo)

	// Отмененное бронирование можно вернуть в confirmed
	resp, err := svc.SetStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = svc.SetStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestSetStatus_ReactivationConflict(t *testing.T) {
	// Интервал отмененного бронирования успели занять: exclusion constraint
	// на неотмененные интервалы не дает вернуть его в confirmed
	repo := &fakeBookingRepo{
		bookings: map[int64]*domain.Booking{
			1: testBooking(1, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), domain.StatusCanceled),
		},
		updateStatusErr: bookingRepo.ErrBookingConflict,
	}

	svc := newTestService(repo)

	_, err := svc.SetStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Equal(t, domain.StatusCanceled, repo.bookings[1].Status)
}

func TestSetStatus_InvalidValue(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), domain.StatusPending),
	}}

	svc := newTestService(repo)

	_, err := svc.SetStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, domain.StatusPending, repo.bookings[1].Status)
}

func TestDelete(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), domain.StatusPending),
	}}

	svc := newTestService(repo)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrBookingNotFound)
}
