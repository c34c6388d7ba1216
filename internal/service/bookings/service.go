package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	bookingRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/booking"
	settingsRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/settings"
	"github.com/smartbooking-ai/smartbooking/internal/service/bookings/models"
	"github.com/smartbooking-ai/smartbooking/internal/timegrid"
)

// Service сервис для работы с бронированиями из дашборда
type Service struct {
	bookingRepo  BookingRepository
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking, s.location(ctx)), nil
}

// List получает бронирования с фильтрацией по дню, статусу и лимиту
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings, date=%v, status=%v, includeCanceled=%v",
		req.Date, req.Status, req.IncludeCanceled)

	loc := s.location(ctx)

	filter := domain.BookingsFilter{
		IncludeCanceled: req.IncludeCanceled,
		Limit:           req.Limit,
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	// Фильтр по дню разворачивается в полуинтервал [dayStart, nextDayStart)
	// в таймзоне бизнеса
	if req.Date != nil {
		grid := timegrid.New(loc)
		dayStart, err := grid.StartOfDay(*req.Date)
		if err != nil {
			s.logger.Warn("List: invalid date=%s", *req.Date)
			return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
		}
		nextDayStart, err := grid.StartOfNextDay(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
		}
		filter.StartDate = &dayStart
		filter.EndDate = &nextDayStart
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings, loc), nil
}

// SetStatus устанавливает статус бронирования.
// Переходы между статусами не ограничены: дашборд может вернуть
// отмененное бронирование в confirmed, если слот еще свободен де-факто.
func (s *Service) SetStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("SetStatus: booking id=%d, status=%s", id, req.Status)

	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("SetStatus: invalid status=%s for booking id=%d", req.Status, id)
		return nil, ErrInvalidStatus
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("SetStatus: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		if errors.Is(err, bookingRepo.ErrBookingConflict) {
			s.logger.Warn("SetStatus: booking id=%d interval already taken", id)
			return nil, ErrBookingConflict
		}
		s.logger.Error("SetStatus: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("SetStatus: failed to reload booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - reload error: %v", ErrInternal, err)
	}

	s.logger.Info("SetStatus: booking id=%d is now %s", id, status)
	return models.FromDomainBooking(booking, s.location(ctx)), nil
}

// Delete физически удаляет бронирование
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: booking id=%d", id)

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: booking id=%d deleted", id)
	return nil
}

// location возвращает таймзону бизнеса для форматирования ответов.
// Недоступные настройки деградируют до таймзоны хоста, а не до ошибки.
func (s *Service) location(ctx context.Context) *time.Location {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("location: failed to get settings: %v", err)
		}
		return time.Local
	}
	return settings.Location()
}
