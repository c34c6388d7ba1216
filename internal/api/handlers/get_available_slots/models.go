package get_available_slots

import (
	getAvailableSlots "github.com/smartbooking-ai/smartbooking/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	Time string `json:"time"` // "10:00"
}

// AvailabilityResponse HTTP модель ответа с доступными слотами
type AvailabilityResponse struct {
	Date            string         `json:"date"`
	ServiceID       int64          `json:"serviceId"`
	ServiceName     string         `json:"serviceName"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{Time: s.Time.String()})
	}

	return &AvailabilityResponse{
		Date:            resp.Date,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
