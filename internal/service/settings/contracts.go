package settings

import (
	"context"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
)

// SettingsRepository интерфейс хранилища настроек бизнеса
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, settings *domain.Settings) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
