package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	settingsRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/settings"
	"github.com/smartbooking-ai/smartbooking/internal/service/settings/models"
)

type fakeSettingsRepo struct {
	settings *domain.Settings
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	if f.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, s *domain.Settings) error {
	f.settings = s
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func validRequest() *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		BusinessName:        "SmartBooking",
		Timezone:            "Europe/Bucharest",
		SlotIntervalMinutes: 30,
		BufferMinutes:       10,
		MaxDaysAhead:        30,
		MinNoticeHours:      2,
		AllowPending:        true,
		RequirePhone:        true,
		WorkingHours: map[string]models.DayHours{
			"1": {Open: "09:00", Close: "18:00"},
			"6": {Open: "10:00", Close: "14:00"},
		},
	}
}

func TestGet_ReturnsDefaultsWhenMissing(t *testing.T) {
	svc := NewService(&fakeSettingsRepo{}, nopLogger{})

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSlotIntervalMinutes, resp.SlotIntervalMinutes)
	assert.Equal(t, domain.DefaultMaxDaysAhead, resp.MaxDaysAhead)
	assert.True(t, resp.AllowPending)
	assert.Contains(t, resp.WorkingHours, "1")
	assert.NotContains(t, resp.WorkingHours, "0")
}

func TestUpdate_RoundTrip(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Update(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Europe/Bucharest", resp.Timezone)
	assert.Equal(t, 10, resp.BufferMinutes)
	require.Contains(t, resp.WorkingHours, "6")
	assert.Equal(t, "10:00", resp.WorkingHours["6"].Open.String())

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resp.WorkingHours, got.WorkingHours)
}

func TestUpdate_Validation(t *testing.T) {
	svc := NewService(&fakeSettingsRepo{}, nopLogger{})

	tests := []struct {
		name   string
		mutate func(*models.UpdateSettingsRequest)
	}{
		{"blank name", func(r *models.UpdateSettingsRequest) { r.BusinessName = "  " }},
		{"unknown timezone", func(r *models.UpdateSettingsRequest) { r.Timezone = "Mars/Olympus" }},
		{"interval too small", func(r *models.UpdateSettingsRequest) { r.SlotIntervalMinutes = 1 }},
		{"interval too large", func(r *models.UpdateSettingsRequest) { r.SlotIntervalMinutes = 600 }},
		{"negative buffer", func(r *models.UpdateSettingsRequest) { r.BufferMinutes = -1 }},
		{"buffer too large", func(r *models.UpdateSettingsRequest) { r.BufferMinutes = 500 }},
		{"zero horizon", func(r *models.UpdateSettingsRequest) { r.MaxDaysAhead = 0 }},
		{"horizon too large", func(r *models.UpdateSettingsRequest) { r.MaxDaysAhead = 1000 }},
		{"notice too large", func(r *models.UpdateSettingsRequest) { r.MinNoticeHours = 1000 }},
		{"bad weekday key", func(r *models.UpdateSettingsRequest) {
			r.WorkingHours["7"] = models.DayHours{Open: "09:00", Close: "18:00"}
		}},
		{"open after close", func(r *models.UpdateSettingsRequest) {
			r.WorkingHours["1"] = models.DayHours{Open: "18:00", Close: "09:00"}
		}},
		{"open equals close", func(r *models.UpdateSettingsRequest) {
			r.WorkingHours["1"] = models.DayHours{Open: "09:00", Close: "09:00"}
		}},
		{"malformed time", func(r *models.UpdateSettingsRequest) {
			r.WorkingHours["1"] = models.DayHours{Open: "9am", Close: "18:00"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := svc.Update(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdate_EmptyTimezoneAllowed(t *testing.T) {
	svc := NewService(&fakeSettingsRepo{}, nopLogger{})

	req := validRequest()
	req.Timezone = ""

	_, err := svc.Update(context.Background(), req)
	require.NoError(t, err)
}
