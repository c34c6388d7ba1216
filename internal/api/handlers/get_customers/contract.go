package get_customers

import (
	"context"

	"github.com/smartbooking-ai/smartbooking/internal/service/customers/models"
)

type CustomerService interface {
	List(ctx context.Context, search string, limit int) (*models.CustomerListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
