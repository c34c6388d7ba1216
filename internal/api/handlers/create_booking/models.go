package create_booking

import (
	"time"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	createBooking "github.com/smartbooking-ai/smartbooking/internal/usecase/create_booking"
	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     int64   `json:"serviceId"`
	Date          string  `json:"date"`      // "2025-10-15"
	Time          string  `json:"time"`      // "10:00"
	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	ServiceID     int64   `json:"serviceId"`
	CustomerID    int64   `json:"customerId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	ServiceName   string  `json:"serviceName"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(origin createBooking.Origin) (*createBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Origin:        origin,
		ServiceID:     r.ServiceID,
		Date:          r.Date,
		Time:          startTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Дата и время форматируются в таймзоне момента начала.
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		ServiceID:     resp.ServiceID,
		CustomerID:    resp.CustomerID,
		Date:          resp.StartAt.Format(domain.DateFormat),
		StartTime:     types.NewTimeString(resp.StartAt).String(),
		EndTime:       types.NewTimeString(resp.EndAt).String(),
		Status:        resp.Status,
		ServiceName:   resp.ServiceName,
		CustomerName:  resp.CustomerName,
		CustomerPhone: resp.CustomerPhone,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
