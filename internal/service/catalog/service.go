package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	serviceRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/service"
	"github.com/smartbooking-ai/smartbooking/internal/service/catalog/models"
)

// Service сервис каталога услуг
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Create создает новую услугу
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: name=%s, duration=%d", req.Name, req.DurationMinutes)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.serviceRepo.Create(ctx, &domain.Service{
		Name:            name,
		DurationMinutes: req.DurationMinutes,
		Active:          active,
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainService(service), nil
}

// List получает услуги каталога. onlyActive ограничивает выдачу
// активными услугами (витрина публичной записи).
func (s *Service) List(ctx context.Context, onlyActive bool) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.List(ctx, onlyActive)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d services, onlyActive=%v", len(services), onlyActive)
	return models.FromDomainServiceList(services), nil
}

// Update обновляет услугу. Частичное обновление: незаполненные поля
// сохраняют текущие значения.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: service id=%d", id)

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", ErrInvalidInput)
		}
		service.Name = name
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
		}
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: service id=%d updated", id)
	return models.FromDomainService(service), nil
}

// Delete удаляет услугу из каталога.
// Существующие бронирования остаются в реестре: история не переписывается,
// имя услуги в выдаче заменяется пустой строкой.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: service id=%d", id)

	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Delete: service id=%d not found", id)
			return ErrServiceNotFound
		}
		s.logger.Error("Delete: repository error for service id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: service id=%d deleted", id)
	return nil
}
