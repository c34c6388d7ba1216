package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	"github.com/smartbooking-ai/smartbooking/pkg/dbmetrics"
	"github.com/smartbooking-ai/smartbooking/pkg/psqlbuilder"
)

// Код PostgreSQL exclusion_violation: срабатывает exclusion constraint
// на tstzrange(start_at, end_at) для неотмененных бронирований
const pqExclusionViolation = "23P01"

// Repository реестр бронирований (BookingLedger).
// Авторитетный источник занятости календаря: проверка конфликтов
// и вставка выполняются в одной сериализуемой транзакции.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её — при создании
// с проверкой конфликтов это обязательно (race между показом слотов и коммитом).
// Нарушение exclusion constraint БД транслируется в ErrBookingConflict:
// это вторая линия защиты после HasConflict.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"service_id",
			"customer_id",
			"start_at",
			"end_at",
			"status",
			"notes",
		).
		Values(
			booking.ServiceID,
			booking.CustomerID,
			booking.StartAt,
			booking.EndAt,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqExclusionViolation {
			return nil, ErrBookingConflict
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID (с данными услуги и клиента для отображения)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectWithRefs().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// ListForRange получает неотмененные бронирования, начинающиеся в полуинтервале
// [from, to), по возрастанию времени начала. Вход для вычисления слотов.
// Внутри транзакции строки блокируются FOR UPDATE — так конкурентные коммиты
// на один день сериализуются.
func (r *Repository) ListForRange(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"service_id",
		"customer_id",
		"start_at",
		"end_at",
		"status",
		"notes",
		"created_at",
		"updated_at",
	).
		From("bookings").
		Where(squirrel.GtOrEq{"start_at": from}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.NotEq{"status": domain.StatusCanceled}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanPlainBookings(rows)
}

// HasConflict проверяет, пересекается ли кандидат [start, end) с каким-либо
// неотмененным бронированием после расширения кандидата на bufferMinutes
// с обеих сторон. Проверяются все бронирования, не только текущий день.
//
// Правило пересечения: existing.start_at < end+buffer AND existing.end_at > start-buffer.
func (r *Repository) HasConflict(ctx context.Context, start, end time.Time, bufferMinutes int) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	buffer := time.Duration(bufferMinutes) * time.Minute
	checkStart := start.Add(-buffer)
	checkEnd := end.Add(buffer)

	query, args, err := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.NotEq{"status": domain.StatusCanceled}).
		Where(squirrel.Lt{"start_at": checkEnd}).
		Where(squirrel.Gt{"end_at": checkStart}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasConflict - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasConflict - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// List получает бронирования с фильтрацией для дашборда
// (с данными услуги и клиента для отображения)
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectWithRefs()

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.start_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"b.start_at": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	} else if !filter.IncludeCanceled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": domain.StatusCanceled})
	}

	// Для периода одного дня сортируем по возрастанию (расписание дня),
	// иначе сначала новые (лента последних бронирований)
	if filter.StartDate != nil && filter.EndDate != nil {
		selectBuilder = selectBuilder.OrderBy("b.start_at ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("b.start_at DESC")
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования.
// С момента перевода в canceled бронирование исключается из всех
// проверок конфликтов (фильтрация по статусу в запросах).
// Обратный переход из canceled снова подпадает под exclusion constraint:
// если интервал успели занять, БД вернет 23P01 — транслируется
// в ErrBookingConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqExclusionViolation {
			return ErrBookingConflict
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete физически удаляет бронирование (операция дашборда)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// selectWithRefs базовый SELECT с джойном справочных данных для отображения
func selectWithRefs() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"b.id",
		"b.service_id",
		"b.customer_id",
		"b.start_at",
		"b.end_at",
		"b.status",
		"b.notes",
		"COALESCE(s.name, '')",
		"COALESCE(c.name, '')",
		"c.phone",
		"b.created_at",
		"b.updated_at",
	).
		From("bookings b").
		LeftJoin("services s ON s.id = b.service_id").
		LeftJoin("customers c ON c.id = b.customer_id")
}

// scanBookings сканирует строки запроса с джойном справочников
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.ServiceID,
			&booking.CustomerID,
			&booking.StartAt,
			&booking.EndAt,
			&booking.Status,
			&booking.Notes,
			&booking.ServiceName,
			&booking.CustomerName,
			&booking.CustomerPhone,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// scanPlainBookings сканирует строки запроса без джойна справочников
func (r *Repository) scanPlainBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.ServiceID,
			&booking.CustomerID,
			&booking.StartAt,
			&booking.EndAt,
			&booking.Status,
			&booking.Notes,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanPlainBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanPlainBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
