package customers

import (
	"context"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
)

// CustomerRepository интерфейс справочника клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, search string, limit int) ([]*domain.Customer, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
