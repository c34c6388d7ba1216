package models

import (
	"errors"
	"time"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос на получение бронирований с фильтрацией
type ListBookingsRequest struct {
	Date            *string `json:"date,omitempty"`            // Локальный день "YYYY-MM-DD" (опционально)
	Status          *string `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeCanceled bool    `json:"includeCanceled,omitempty"` // Включить отмененные бронирования
	Limit           int     `json:"limit,omitempty"`           // 0 = без ограничения
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	ServiceID  int64  `json:"serviceId"`
	CustomerID int64  `json:"customerId"`
	Date       string `json:"date"`      // "2025-10-15"
	StartTime  string `json:"startTime"` // "10:00"
	EndTime    string `json:"endTime"`   // "10:30"
	Status     string `json:"status"`

	ServiceName   string  `json:"serviceName"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !domain.ValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// FromDomainBooking конвертирует domain модель в DTO.
// Дата и время форматируются в таймзоне бизнеса.
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}

	start := b.StartAt.In(loc)
	end := b.EndAt.In(loc)

	return &BookingResponse{
		ID:            b.ID,
		ServiceID:     b.ServiceID,
		CustomerID:    b.CustomerID,
		Date:          start.Format(domain.DateFormat),
		StartTime:     types.NewTimeString(start).String(),
		EndTime:       types.NewTimeString(end).String(),
		Status:        string(b.Status),
		ServiceName:   b.ServiceName,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, loc *time.Location) *BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, *FromDomainBooking(b, loc))
	}
	return &BookingListResponse{Bookings: result}
}
