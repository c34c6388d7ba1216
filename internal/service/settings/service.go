package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	settingsRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/settings"
	"github.com/smartbooking-ai/smartbooking/internal/service/settings/models"
)

var weekdayKeys = map[string]struct{}{
	"0": {}, "1": {}, "2": {}, "3": {}, "4": {}, "5": {}, "6": {},
}

// Service сервис настроек бизнеса
type Service struct {
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get получает настройки бизнеса.
// Если строка настроек еще не создана, возвращаются значения по умолчанию.
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("Get: settings row missing, returning defaults")
			return models.FromDomainSettings(domain.DefaultSettings()), nil
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSettings(settings), nil
}

// Update валидирует и сохраняет настройки бизнеса целиком
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: saving business settings")

	if err := validateRequest(req); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	settings := req.ToDomainSettings()

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	saved, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Update: failed to reload settings: %v", err)
		return nil, fmt.Errorf("%w: Update - reload error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: settings saved")
	return models.FromDomainSettings(saved), nil
}

// validateRequest проверяет границы политик и корректность расписания недели
func validateRequest(req *models.UpdateSettingsRequest) error {
	if strings.TrimSpace(req.BusinessName) == "" {
		return fmt.Errorf("%w: businessName is required", ErrInvalidInput)
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
		}
	}

	if req.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || req.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slotIntervalMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}

	if req.BufferMinutes < 0 || req.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxBufferMinutes)
	}

	if req.MaxDaysAhead <= 0 || req.MaxDaysAhead > domain.MaxMaxDaysAhead {
		return fmt.Errorf("%w: maxDaysAhead must be between 1 and %d",
			ErrInvalidInput, domain.MaxMaxDaysAhead)
	}

	if req.MinNoticeHours < 0 || req.MinNoticeHours > domain.MaxMinNoticeHours {
		return fmt.Errorf("%w: minNoticeHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxMinNoticeHours)
	}

	for key, day := range req.WorkingHours {
		if _, ok := weekdayKeys[key]; !ok {
			return fmt.Errorf("%w: unknown weekday key %q", ErrInvalidInput, key)
		}
		if err := day.Open.Validate(); err != nil {
			return fmt.Errorf("%w: day %s: invalid open time", ErrInvalidInput, key)
		}
		if err := day.Close.Validate(); err != nil {
			return fmt.Errorf("%w: day %s: invalid close time", ErrInvalidInput, key)
		}
		if !day.Open.IsBefore(day.Close) {
			return fmt.Errorf("%w: day %s: open must be before close", ErrInvalidInput, key)
		}
	}

	return nil
}
