package create_booking

import (
	"time"

	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

// Origin источник запроса на бронирование
type Origin string

const (
	// OriginPublic публичная форма записи: действуют все политики расписания
	OriginPublic Origin = "public"

	// OriginDashboard ручное бронирование из дашборда: политики расписания
	// не применяются, проверяется только фактический конфликт
	OriginDashboard Origin = "dashboard"
)

// Request модель запроса на создание бронирования
type Request struct {
	Origin    Origin
	ServiceID int64
	Date      string           // Локальный день бизнеса "YYYY-MM-DD"
	Time      types.TimeString // Время начала "HH:MM"

	CustomerName  string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	ServiceID  int64
	CustomerID int64
	StartAt    time.Time
	EndAt      time.Time
	Status     string

	ServiceName   string
	CustomerName  string
	CustomerPhone *string
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
