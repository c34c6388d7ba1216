package customers

import (
	"context"
	"errors"
	"fmt"

	customerRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/customer"
	"github.com/smartbooking-ai/smartbooking/internal/service/customers/models"
)

// Service сервис справочника клиентов для дашборда
type Service struct {
	customerRepo CustomerRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(customerRepo CustomerRepository, logger Logger) *Service {
	return &Service{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// GetByID получает клиента по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.CustomerResponse, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			s.logger.Warn("GetByID: customer id=%d not found", id)
			return nil, ErrCustomerNotFound
		}
		s.logger.Error("GetByID: repository error for customer id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainCustomer(customer), nil
}

// List получает клиентов с необязательным поиском по имени или телефону
func (s *Service) List(ctx context.Context, search string, limit int) (*models.CustomerListResponse, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	customers, err := s.customerRepo.List(ctx, search, limit)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d customers, search=%q", len(customers), search)
	return models.FromDomainCustomerList(customers), nil
}
