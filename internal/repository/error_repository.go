package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

// ErrorRepository stores and queries the order failure log.
type ErrorRepository interface {
	Create(ctx context.Context, record *domain.ErrorRecord) error
	ListForUser(ctx context.Context, userID int64, page, size int) ([]domain.ErrorRecord, int64, error)
	ListAll(ctx context.Context, page, size int) ([]domain.ErrorRecord, int64, error)
	ListByOperation(ctx context.Context, operation string) ([]domain.ErrorRecord, error)
	ListByTimeRange(ctx context.Context, from, to time.Time) ([]domain.ErrorRecord, error)
	CountForUser(ctx context.Context, userID int64) (int64, error)
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}

type errorRepository struct {
	pool *pgxpool.Pool
}

// NewErrorRepository returns a Postgres-backed implementation.
func NewErrorRepository(pool *pgxpool.Pool) ErrorRepository {
	return &errorRepository{pool: pool}
}

func (r *errorRepository) Create(ctx context.Context, record *domain.ErrorRecord) error {
	const query = `
        INSERT INTO error_messages (order_id, operation, error_message, timestamp, user_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		record.OrderID,
		record.Operation,
		record.Message,
		record.Timestamp,
		record.User.ID,
	).Scan(&record.ID)
}

const errorSelect = `
    SELECT e.id, e.order_id, e.operation, e.error_message, e.timestamp,
           u.id, u.first_name, u.last_name, u.email
    FROM error_messages e
    JOIN users u ON u.id = e.user_id`

func (r *errorRepository) ListForUser(ctx context.Context, userID int64, page, size int) ([]domain.ErrorRecord, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM error_messages WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	records, err := r.queryRecords(ctx,
		errorSelect+` WHERE e.user_id=$1 ORDER BY e.timestamp DESC LIMIT $2 OFFSET $3`,
		userID, size, page*size)
	return records, total, err
}

func (r *errorRepository) ListAll(ctx context.Context, page, size int) ([]domain.ErrorRecord, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM error_messages`).Scan(&total); err != nil {
		return nil, 0, err
	}

	records, err := r.queryRecords(ctx,
		errorSelect+` ORDER BY e.timestamp DESC LIMIT $1 OFFSET $2`, size, page*size)
	return records, total, err
}

func (r *errorRepository) ListByOperation(ctx context.Context, operation string) ([]domain.ErrorRecord, error) {
	return r.queryRecords(ctx,
		errorSelect+` WHERE e.operation=$1 ORDER BY e.timestamp DESC`, operation)
}

func (r *errorRepository) ListByTimeRange(ctx context.Context, from, to time.Time) ([]domain.ErrorRecord, error) {
	return r.queryRecords(ctx,
		errorSelect+` WHERE e.timestamp BETWEEN $1 AND $2 ORDER BY e.timestamp DESC`, from, to)
}

func (r *errorRepository) CountForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM error_messages WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}

func (r *errorRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM error_messages WHERE timestamp < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *errorRepository) queryRecords(ctx context.Context, query string, args ...any) ([]domain.ErrorRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ErrorRecord
	for rows.Next() {
		var record domain.ErrorRecord
		if err := rows.Scan(
			&record.ID,
			&record.OrderID,
			&record.Operation,
			&record.Message,
			&record.Timestamp,
			&record.User.ID,
			&record.User.FirstName,
			&record.User.LastName,
			&record.User.Email,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
