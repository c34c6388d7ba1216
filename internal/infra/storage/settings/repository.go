package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	"github.com/smartbooking-ai/smartbooking/pkg/dbmetrics"
	"github.com/smartbooking-ai/smartbooking/pkg/psqlbuilder"
)

// Repository хранилище настроек бизнеса.
// Настройки — синглтон: ровно одна строка с id = domain.SettingsID,
// расписание недели хранится в JSONB колонке working_hours.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки бизнеса
func (r *Repository) Get(ctx context.Context) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_name",
		"business_phone",
		"whatsapp_phone",
		"address",
		"timezone",
		"slot_interval_minutes",
		"buffer_minutes",
		"max_days_ahead",
		"min_notice_hours",
		"allow_pending",
		"require_phone",
		"working_hours",
		"updated_at",
	).
		From("settings").
		Where(squirrel.Eq{"id": domain.SettingsID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.Settings
	var hoursRaw []byte
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&settings.BusinessName,
		&settings.BusinessPhone,
		&settings.WhatsappPhone,
		&settings.Address,
		&settings.Timezone,
		&settings.SlotIntervalMinutes,
		&settings.BufferMinutes,
		&settings.MaxDaysAhead,
		&settings.MinNoticeHours,
		&settings.AllowPending,
		&settings.RequirePhone,
		&hoursRaw,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan row: %v", ErrScanRow, err)
	}

	settings.WorkingHours = make(domain.WorkingHours)
	if len(hoursRaw) > 0 {
		if err := json.Unmarshal(hoursRaw, &settings.WorkingHours); err != nil {
			return nil, fmt.Errorf("%w: Get: %v", ErrDecodeHours, err)
		}
	}

	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// Upsert сохраняет настройки бизнеса, создавая строку при первом сохранении
func (r *Repository) Upsert(ctx context.Context, settings *domain.Settings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	hoursRaw, err := json.Marshal(settings.WorkingHours)
	if err != nil {
		return fmt.Errorf("%w: Upsert: %v", ErrEncodeHours, err)
	}

	query, args, err := psqlbuilder.Insert("settings").
		Columns(
			"id",
			"business_name",
			"business_phone",
			"whatsapp_phone",
			"address",
			"timezone",
			"slot_interval_minutes",
			"buffer_minutes",
			"max_days_ahead",
			"min_notice_hours",
			"allow_pending",
			"require_phone",
			"working_hours",
			"updated_at",
		).
		Values(
			domain.SettingsID,
			settings.BusinessName,
			settings.BusinessPhone,
			settings.WhatsappPhone,
			settings.Address,
			settings.Timezone,
			settings.SlotIntervalMinutes,
			settings.BufferMinutes,
			settings.MaxDaysAhead,
			settings.MinNoticeHours,
			settings.AllowPending,
			settings.RequirePhone,
			hoursRaw,
			squirrel.Expr("NOW()"),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			business_phone = EXCLUDED.business_phone,
			whatsapp_phone = EXCLUDED.whatsapp_phone,
			address = EXCLUDED.address,
			timezone = EXCLUDED.timezone,
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			max_days_ahead = EXCLUDED.max_days_ahead,
			min_notice_hours = EXCLUDED.min_notice_hours,
			allow_pending = EXCLUDED.allow_pending,
			require_phone = EXCLUDED.require_phone,
			working_hours = EXCLUDED.working_hours,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}
