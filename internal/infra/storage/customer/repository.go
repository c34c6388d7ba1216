package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/smartbooking-ai/smartbooking/internal/domain"
	"github.com/smartbooking-ai/smartbooking/pkg/dbmetrics"
	"github.com/smartbooking-ai/smartbooking/pkg/psqlbuilder"
)

// Repository справочник клиентов.
// Телефон — естественный ключ дедупликации: клиент с тем же номером
// переиспользуется, клиент без номера каждый раз создается заново.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает нового клиента
func (r *Repository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customers").
		Columns("name", "phone", "email").
		Values(customer.Name, customer.Phone, customer.Email).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&customer.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	customer.CreatedAt = createdAt.Time

	return customer, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectCustomer().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanCustomer(executor.QueryRowContext(ctx, query, args...))
}

// GetByPhone получает клиента по номеру телефона.
// Если номеров-дубликатов несколько, берется самый ранний.
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectCustomer().
		Where(squirrel.Eq{"phone": phone}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPhone - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanCustomer(executor.QueryRowContext(ctx, query, args...))
}

// UpdateName обновляет имя существующего клиента.
// Повторное бронирование по тому же номеру освежает имя в справочнике.
func (r *Repository) UpdateName(ctx context.Context, id int64, name string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customers").
		Set("name", name).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateName - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateName - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateName - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// List получает клиентов для дашборда с необязательным поиском
// по имени или номеру телефона
func (r *Repository) List(ctx context.Context, search string, limit int) ([]*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectCustomer().OrderBy("created_at DESC")

	if search != "" {
		pattern := "%" + search + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
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

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		var customer domain.Customer
		var createdAt sql.NullTime

		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Phone,
			&customer.Email,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}

		customer.CreatedAt = createdAt.Time
		customers = append(customers, &customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return customers, nil
}

// selectCustomer базовый SELECT по таблице клиентов
func selectCustomer() squirrel.SelectBuilder {
	return psqlbuilder.Select("id", "name", "phone", "email", "created_at").
		From("customers")
}

// scanCustomer сканирует одну строку клиента
func (r *Repository) scanCustomer(row *sql.Row) (*domain.Customer, error) {
	var customer domain.Customer
	var createdAt sql.NullTime

	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&customer.Email,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanCustomer - scan row: %v", ErrScanRow, err)
	}

	customer.CreatedAt = createdAt.Time

	return &customer, nil
}
