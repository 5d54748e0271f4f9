package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TravelBooking/pkg/txmanager"
)

const table = "bookings"

var columns = []string{
	"id",
	"reference_number",
	"user_id",
	"hotel_id",
	"hotel_name",
	"hotel_city",
	"check_in",
	"check_out",
	"room_id",
	"room_name",
	"guest_first_name",
	"guest_last_name",
	"guest_email",
	"guest_phone",
	"special_requests",
	"base_rate",
	"nights",
	"price_items",
	"total",
	"currency",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий подтвержденных бронирований (история пользователя)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет подтверждение.
// Повторная запись того же ID ничего не меняет, возвращает false.
func (r *Repository) Create(ctx context.Context, c domain.BookingConfirmation) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	items, err := encodePriceItems(c.Pricing.Items)
	if err != nil {
		return false, fmt.Errorf("%w: Create - encode price items: %v", ErrBuildQuery, err)
	}

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns...).
		Values(
			c.ID,
			c.ReferenceNumber,
			c.UserID,
			c.Hotel.ID,
			c.Hotel.Name,
			c.Hotel.City,
			domain.DateOnly(c.CheckIn),
			domain.DateOnly(c.CheckOut),
			c.Room.ID,
			c.Room.Name,
			c.Guest.FirstName,
			c.Guest.LastName,
			c.Guest.Email,
			c.Guest.Phone,
			c.Guest.SpecialRequests,
			c.Pricing.BaseRate,
			c.Pricing.Nights,
			items,
			c.Pricing.Total,
			c.Pricing.Currency,
			string(c.Status),
			createdAt,
			updatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Create - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// GetByID получает подтверждение по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.BookingConfirmation, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanConfirmation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return c, nil
}

// ListByUser получает историю пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingConfirmation, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.BookingConfirmation, 0)
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpdateStatus обновляет статус подтверждения
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, at time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: UpdateStatus - %q", ErrInvalidStatus, status)
	}

	return r.update(ctx, "UpdateStatus", id, psqlbuilder.Update(table).
		Set("status", string(status)).
		Set("updated_at", at))
}

// Cancel переводит подтверждение в статус cancelled с указанием причины
func (r *Repository) Cancel(ctx context.Context, id string, reason string, at time.Time) error {
	return r.update(ctx, "Cancel", id, psqlbuilder.Update(table).
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at).
		Set("updated_at", at))
}

func (r *Repository) update(ctx context.Context, op, id string, builder squirrel.UpdateBuilder) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := builder.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanConfirmation сканирует строку в подтверждение (порядок колонок как в columns)
func scanConfirmation(row rowScanner) (*domain.BookingConfirmation, error) {
	var (
		c      domain.BookingConfirmation
		items  []byte
		status string
	)

	err := row.Scan(
		&c.ID,
		&c.ReferenceNumber,
		&c.UserID,
		&c.Hotel.ID,
		&c.Hotel.Name,
		&c.Hotel.City,
		&c.CheckIn,
		&c.CheckOut,
		&c.Room.ID,
		&c.Room.Name,
		&c.Guest.FirstName,
		&c.Guest.LastName,
		&c.Guest.Email,
		&c.Guest.Phone,
		&c.Guest.SpecialRequests,
		&c.Pricing.BaseRate,
		&c.Pricing.Nights,
		&items,
		&c.Pricing.Total,
		&c.Pricing.Currency,
		&status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Pricing.Items, err = decodePriceItems(items)
	if err != nil {
		return nil, fmt.Errorf("decode price items: %v", err)
	}

	c.Status = domain.BookingStatus(status)
	c.CheckIn = domain.DateOnly(c.CheckIn)
	c.CheckOut = domain.DateOnly(c.CheckOut)
	c.Hotel.Currency = c.Pricing.Currency
	c.Room.Currency = c.Pricing.Currency
	c.Room.BaseRate = c.Pricing.BaseRate
	c.Pricing.RoomID = c.Room.ID
	c.Pricing.CheckIn = c.CheckIn
	c.Pricing.CheckOut = c.CheckOut

	return &c, nil
}
