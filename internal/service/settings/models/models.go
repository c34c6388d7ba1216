package models

import (
	"time"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	"github.com/smartbooking-ai/smartbooking/pkg/types"
)

// DayHours рабочие часы одного дня недели
type DayHours struct {
	Open  types.TimeString `json:"open"`
	Close types.TimeString `json:"close"`
}

// UpdateSettingsRequest запрос на сохранение настроек бизнеса.
// Настройки сохраняются целиком, как одна форма.
type UpdateSettingsRequest struct {
	BusinessName  string  `json:"businessName"`
	BusinessPhone *string `json:"businessPhone,omitempty"`
	WhatsappPhone *string `json:"whatsappPhone,omitempty"`
	Address       *string `json:"address,omitempty"`
	Timezone      string  `json:"timezone"`

	SlotIntervalMinutes int `json:"slotIntervalMinutes"`
	BufferMinutes       int `json:"bufferMinutes"`
	MaxDaysAhead        int `json:"maxDaysAhead"`
	MinNoticeHours      int `json:"minNoticeHours"`

	AllowPending bool `json:"allowPending"`
	RequirePhone bool `json:"requirePhone"`

	// Ключи "0"(воскресенье).."6"(суббота); отсутствие ключа = выходной
	WorkingHours map[string]DayHours `json:"workingHours"`
}

// SettingsResponse ответ с настройками бизнеса
type SettingsResponse struct {
	BusinessName  string  `json:"businessName"`
	BusinessPhone *string `json:"businessPhone,omitempty"`
	WhatsappPhone *string `json:"whatsappPhone,omitempty"`
	Address       *string `json:"address,omitempty"`
	Timezone      string  `json:"timezone"`

	SlotIntervalMinutes int `json:"slotIntervalMinutes"`
	BufferMinutes       int `json:"bufferMinutes"`
	MaxDaysAhead        int `json:"maxDaysAhead"`
	MinNoticeHours      int `json:"minNoticeHours"`

	AllowPending bool `json:"allowPending"`
	RequirePhone bool `json:"requirePhone"`

	WorkingHours map[string]DayHours `json:"workingHours"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

// ToDomainSettings конвертирует request в domain модель
func (r *UpdateSettingsRequest) ToDomainSettings() *domain.Settings {
	hours := make(domain.WorkingHours, len(r.WorkingHours))
	for key, day := range r.WorkingHours {
		hours[key] = domain.DayHours{Open: day.Open, Close: day.Close}
	}

	return &domain.Settings{
		ID:                  domain.SettingsID,
		BusinessName:        r.BusinessName,
		BusinessPhone:       r.BusinessPhone,
		WhatsappPhone:       r.WhatsappPhone,
		Address:             r.Address,
		Timezone:            r.Timezone,
		SlotIntervalMinutes: r.SlotIntervalMinutes,
		BufferMinutes:       r.BufferMinutes,
		MaxDaysAhead:        r.MaxDaysAhead,
		MinNoticeHours:      r.MinNoticeHours,
		AllowPending:        r.AllowPending,
		RequirePhone:        r.RequirePhone,
		WorkingHours:        hours,
	}
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.Settings) *SettingsResponse {
	if s == nil {
		return nil
	}

	hours := make(map[string]DayHours, len(s.WorkingHours))
	for key, day := range s.WorkingHours {
		hours[key] = DayHours{Open: day.Open, Close: day.Close}
	}

	return &SettingsResponse{
		BusinessName:        s.BusinessName,
		BusinessPhone:       s.BusinessPhone,
		WhatsappPhone:       s.WhatsappPhone,
		Address:             s.Address,
		Timezone:            s.Timezone,
		SlotIntervalMinutes: s.SlotIntervalMinutes,
		BufferMinutes:       s.BufferMinutes,
		MaxDaysAhead:        s.MaxDaysAhead,
		MinNoticeHours:      s.MinNoticeHours,
		AllowPending:        s.AllowPending,
		RequirePhone:        s.RequirePhone,
		WorkingHours:        hours,
		UpdatedAt:           s.UpdatedAt,
	}
}
