package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	customerRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/customer"
	serviceRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/service"
	"github.com/smartbooking-ai/smartbooking/pkg/ptr"
)

const testDate = "2025-10-15" // Wednesday

// fakeLedger хранит бронирования в памяти и повторяет семантику
// репозитория: HasConflict с буфером по всем неотмененным бронированиям
type fakeLedger struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64
}

func (f *fakeLedger) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	booking.ID = f.nextID
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.bookings = append(f.bookings, booking)
	return booking, nil
}

func (f *fakeLedger) HasConflict(_ context.Context, start, end time.Time, bufferMinutes int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	buffer := time.Duration(bufferMinutes) * time.Minute
	for _, b := range f.bookings {
		if !b.IsActive() {
			continue
		}
		if b.StartAt.Before(end.Add(buffer)) && b.EndAt.After(start.Add(-buffer)) {
			return true, nil
		}
	}
	return false, nil
}

type fakeCustomers struct {
	mu        sync.Mutex
	customers []*domain.Customer
	nextID    int64
}

func (f *fakeCustomers) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.customers {
		if c.Phone != nil && *c.Phone == phone {
			copied := *c
			return &copied, nil
		}
	}
	return nil, customerRepo.ErrCustomerNotFound
}

func (f *fakeCustomers) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	customer.ID = f.nextID
	customer.CreatedAt = time.Now()
	f.customers = append(f.customers, customer)
	return customer, nil
}

func (f *fakeCustomers) UpdateName(_ context.Context, id int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.customers {
		if c.ID == id {
			c.Name = name
			return nil
		}
	}
	return customerRepo.ErrCustomerNotFound
}

type fakeServices struct {
	services map[int64]*domain.Service
}

func (f *fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeSettings struct {
	settings *domain.Settings
}

func (f *fakeSettings) Get(_ context.Context) (*domain.Settings, error) {
	return f.settings, nil
}

// fakeTxManager сериализует конкурентные транзакции мьютексом,
// как это делает уровень изоляции serializable в БД
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
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
	s.MinNoticeHours = 0
	s.AllowPending = true
	s.RequirePhone = true
	s.WorkingHours = domain.WorkingHours{
		"3": {Open: "09:00", Close: "18:00"}, // Wednesday only
	}
	return s
}

type testEnv struct {
	uc        *UseCase
	ledger    *fakeLedger
	customers *fakeCustomers
}

func newTestEnv(settings *domain.Settings, now time.Time) *testEnv {
	ledger := &fakeLedger{}
	customers := &fakeCustomers{}

	uc := NewUseCase(
		ledger,
		customers,
		&fakeServices{services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Consultation", DurationMinutes: 30, Active: true},
			2: {ID: 2, Name: "Archived", DurationMinutes: 30, Active: false},
		}},
		&fakeSettings{settings: settings},
		&fakeTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}

	return &testEnv{uc: uc, ledger: ledger, customers: customers}
}

func publicRequest() *Request {
	return &Request{
		Origin:        OriginPublic,
		ServiceID:     1,
		Date:          testDate,
		Time:          "10:00",
		CustomerName:  "Ana Popescu",
		CustomerPhone: ptr.Ptr("+40700000001"),
	}
}

func testNow() time.Time {
	return time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
}

func TestExecute_PublicBookingIsPending(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	resp, err := env.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Consultation", resp.ServiceName)
	assert.Equal(t, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), resp.StartAt)
	assert.Equal(t, time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC), resp.EndAt)
}

func TestExecute_PendingDisabledCreatesConfirmed(t *testing.T) {
	settings := testSettings()
	settings.AllowPending = false

	env := newTestEnv(settings, testNow())

	resp, err := env.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_DashboardBookingAlwaysConfirmed(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	req := publicRequest()
	req.Origin = OriginDashboard

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_DashboardSkipsSchedulePolicies(t *testing.T) {
	settings := testSettings()
	settings.MinNoticeHours = 100

	env := newTestEnv(settings, testNow())

	// Выходной день, вне рабочих часов, внутри окна уведомления —
	// для дашборда ничего из этого не препятствие
	req := publicRequest()
	req.Origin = OriginDashboard
	req.Date = "2025-10-13"
	req.Time = "23:00"

	_, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_BufferedConflictRejected(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	_, err := env.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)

	// 10:30 граничит с 10:00-10:30, но буфер 10 минут делает их конфликтом
	req := publicRequest()
	req.Time = "10:30"

	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// 11:00 уже за пределами буфера
	req = publicRequest()
	req.Time = "11:00"

	_, err = env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_CanceledBookingDoesNotBlock(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	resp, err := env.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)

	env.ledger.mu.Lock()
	env.ledger.bookings[0].Status = domain.StatusCanceled
	env.ledger.mu.Unlock()

	_, err = env.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestExecute_ConcurrentRequestsOneWins(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := publicRequest()
			req.CustomerPhone = ptr.Ptr("+4070000000" + string(rune('1'+i)))
			_, errs[i] = env.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotTaken)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one of two concurrent requests must win the slot")
	assert.Len(t, env.ledger.bookings, 1)
}

func TestExecute_CustomerReusedByPhone(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	_, err := env.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)

	req := publicRequest()
	req.Time = "14:00"
	req.CustomerName = "Ana Maria Popescu"

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, env.customers.customers, 1)
	assert.Equal(t, "Ana Maria Popescu", resp.CustomerName)
	assert.Equal(t, "Ana Maria Popescu", env.customers.customers[0].Name)
}

func TestExecute_AnonymousCustomerCreatedEachTime(t *testing.T) {
	settings := testSettings()
	settings.RequirePhone = false

	env := newTestEnv(settings, testNow())

	req := publicRequest()
	req.CustomerPhone = nil

	_, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	req = publicRequest()
	req.CustomerPhone = nil
	req.Time = "14:00"

	_, err = env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, env.customers.customers, 2)
}

func TestExecute_PhoneRequired(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	req := publicRequest()
	req.CustomerPhone = nil

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPhoneRequired)

	// Дашборд требует телефон независимо от настройки
	settings := testSettings()
	settings.RequirePhone = false
	env = newTestEnv(settings, testNow())

	req = publicRequest()
	req.Origin = OriginDashboard
	req.CustomerPhone = nil

	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPhoneRequired)
}

func TestExecute_SchedulePoliciesForPublic(t *testing.T) {
	settings := testSettings()
	settings.MinNoticeHours = 72

	env := newTestEnv(settings, testNow())

	// Дата в прошлом
	req := publicRequest()
	req.Date = "2025-10-12"
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)

	// За горизонтом
	req = publicRequest()
	req.Date = "2025-12-31"
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	// Выходной день (четверг)
	req = publicRequest()
	req.Date = "2025-10-16"
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessClosed)

	// Вне рабочих часов: услуга заканчивается после закрытия
	req = publicRequest()
	req.Time = "17:45"
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessClosed)

	// Меньше минимального уведомления: 15.10 10:00 ближе 72 часов от 13.10 08:00
	req = publicRequest()
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooSoon)
}

func TestExecute_InactiveServiceRejectedForPublicOnly(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	req := publicRequest()
	req.ServiceID = 2

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	req.Origin = OriginDashboard
	_, err = env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_InvalidInput(t *testing.T) {
	env := newTestEnv(testSettings(), testNow())

	req := publicRequest()
	req.CustomerName = "   "
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = publicRequest()
	req.Time = "25:99"
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = publicRequest()
	longNotes := make([]byte, domain.MaxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'a'
	}
	req.Notes = ptr.Ptr(string(longNotes))
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
