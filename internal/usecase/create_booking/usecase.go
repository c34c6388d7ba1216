package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	bookingRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/booking"
	customerRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/customer"
	serviceRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/service"
	settingsRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/settings"
	"github.com/smartbooking-ai/smartbooking/internal/timegrid"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	customerRepo CustomerRepository
	serviceRepo  ServiceRepository
	settingsRepo SettingsRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	customerRepo CustomerRepository,
	serviceRepo ServiceRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка конфликта и вставка выполняются в одной сериализуемой транзакции:
// два конкурентных запроса на один слот не могут пройти проверку одновременно.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: origin=%s, service=%d, date=%s, time=%s",
		req.Origin, req.ServiceID, req.Date, req.Time)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки бизнеса (снимок на весь расчет)
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			settings = domain.DefaultSettings()
			uc.logger.Info("CreateBooking: settings row missing, using defaults")
		} else {
			uc.logger.Error("CreateBooking: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
	}

	grid := timegrid.New(settings.Location())

	// 4. Проверяем обязательность телефона
	if err := validatePhonePolicy(req, settings); err != nil {
		uc.logger.Warn("CreateBooking: phone policy failed: origin=%s", req.Origin)
		return nil, err
	}

	// 5. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if req.Origin == OriginPublic && !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 6. Вычисляем интервал бронирования
	startAt, err := grid.Combine(req.Date, req.Time)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid date/time: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	endAt := timegrid.AddMinutes(startAt, service.DurationMinutes)

	// 7. Политики расписания: только для публичной формы.
	// Дашборд бронирует вручную в обход горизонта, рабочих часов и уведомления.
	if req.Origin == OriginPublic {
		if err := validateDate(grid, req.Date, now, settings.Horizon()); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return nil, err
		}

		weekdayKey, err := grid.WeekdayKey(req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := validateWorkingWindow(grid, req.Date, settings.HoursFor(weekdayKey), startAt, endAt); err != nil {
			uc.logger.Warn("CreateBooking: outside working hours: date=%s, time=%s", req.Date, req.Time)
			return nil, err
		}

		if err := validateMinNotice(startAt, now, settings.MinNotice()); err != nil {
			uc.logger.Warn("CreateBooking: min notice violated: time=%s", req.Time)
			return nil, err
		}
	}

	// 8. Находим или создаем клиента.
	// Телефон — ключ дедупликации: повторная запись по тому же номеру
	// переиспользует клиента и освежает имя. Без телефона клиент
	// создается заново при каждой записи.
	customer, err := uc.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	// 9. Определяем статус нового бронирования
	status := domain.StatusConfirmed
	if req.Origin == OriginPublic && settings.AllowPending {
		status = domain.StatusPending
	}

	var result *domain.Booking

	// 10. Проверка конфликта и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		conflict, err := uc.bookingRepo.HasConflict(txCtx, startAt, endAt, settings.Buffer())
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check conflict: %v", err)
			return fmt.Errorf("%w: failed to check conflict: %v", ErrInternal, err)
		}
		if conflict {
			uc.logger.Warn("CreateBooking: slot taken: date=%s, time=%s", req.Date, req.Time)
			return ErrSlotTaken
		}

		booking := &domain.Booking{
			ServiceID:  service.ID,
			CustomerID: customer.ID,
			StartAt:    startAt,
			EndAt:      endAt,
			Status:     status,
			Notes:      req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Exclusion constraint в БД — вторая линия защиты от гонок
			if errors.Is(err, bookingRepo.ErrBookingConflict) {
				uc.logger.Warn("CreateBooking: conflict on insert: date=%s, time=%s", req.Date, req.Time)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, status=%s", result.ID, result.Status)

	return &Response{
		ID:            result.ID,
		ServiceID:     result.ServiceID,
		CustomerID:    result.CustomerID,
		StartAt:       result.StartAt,
		EndAt:         result.EndAt,
		Status:        string(result.Status),
		ServiceName:   service.Name,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

// resolveCustomer находит клиента по номеру телефона или создает нового
func (uc *UseCase) resolveCustomer(ctx context.Context, req *Request) (*domain.Customer, error) {
	name := strings.TrimSpace(req.CustomerName)

	if req.CustomerPhone != nil {
		existing, err := uc.customerRepo.GetByPhone(ctx, *req.CustomerPhone)
		if err == nil {
			if existing.Name != name {
				if err := uc.customerRepo.UpdateName(ctx, existing.ID, name); err != nil {
					uc.logger.Error("CreateBooking: failed to update customer name id=%d: %v", existing.ID, err)
					return nil, fmt.Errorf("%w: failed to update customer: %v", ErrInternal, err)
				}
				existing.Name = name
			}
			uc.logger.Info("CreateBooking: reusing customer id=%d", existing.ID)
			return existing, nil
		}
		if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
			uc.logger.Error("CreateBooking: failed to get customer by phone: %v", err)
			return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}
	}

	created, err := uc.customerRepo.Create(ctx, &domain.Customer{
		Name:  name,
		Phone: req.CustomerPhone,
		Email: req.CustomerEmail,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create customer: %v", err)
		return nil, fmt.Errorf("%w: failed to create customer: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created customer id=%d", created.ID)
	return created, nil
}
