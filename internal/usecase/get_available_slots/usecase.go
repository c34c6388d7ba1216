package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	serviceRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/service"
	settingsRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/settings"
	"github.com/smartbooking-ai/smartbooking/internal/timegrid"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	settingsRepo SettingsRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	settingsRepo SettingsRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		settingsRepo: settingsRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s", req.ServiceID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки бизнеса (снимок на весь расчет)
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			settings = domain.DefaultSettings()
			uc.logger.Info("GetAvailableSlots: settings row missing, using defaults")
		} else {
			uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
	}

	grid := timegrid.New(settings.Location())

	// 4. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	durationMinutes := service.EffectiveDuration(req.DurationMinutes)

	// 5. Проверяем, что день попадает в окно бронирования
	if err := validateDate(grid, req.Date, now, settings.Horizon()); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 6. Получаем рабочие часы на указанный день недели
	weekdayKey, err := grid.WeekdayKey(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hours := settings.HoursFor(weekdayKey)
	if hours == nil || !hours.IsValid() {
		uc.logger.Info("GetAvailableSlots: business is closed on %s", req.Date)
		return uc.emptyResponse(req, service, durationMinutes), nil
	}

	// 7. Получаем бронирования дня
	dayStart, err := grid.StartOfDay(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	nextDayStart, err := grid.StartOfNextDay(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := uc.bookingRepo.ListForRange(ctx, dayStart, nextDayStart)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 8. Вычисляем доступные слоты: кандидаты от открытия с шагом interval,
	// отсечение по минимальному уведомлению и занятым интервалам с буфером
	notBefore := now.Add(settings.MinNotice())

	slots, err := computeSlots(
		grid,
		req.Date,
		*hours,
		durationMinutes,
		settings.SlotInterval(),
		settings.Buffer(),
		notBefore,
		bookings,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: %d slots for service=%d, date=%s", len(slots), req.ServiceID, req.Date)

	return &Response{
		Date:            req.Date,
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		DurationMinutes: durationMinutes,
		Slots:           slots,
	}, nil
}

// emptyResponse ответ без слотов (выходной день)
func (uc *UseCase) emptyResponse(req *Request, service *domain.Service, durationMinutes int) *Response {
	return &Response{
		Date:            req.Date,
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		DurationMinutes: durationMinutes,
		Slots:           []domain.Slot{},
	}
}
