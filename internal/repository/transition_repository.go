package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

// TransitionRepository stores pending timed order-status moves.
type TransitionRepository interface {
	Create(ctx context.Context, transition *domain.StatusTransition) error
	FindPending(ctx context.Context, now time.Time) ([]domain.StatusTransition, error)
	MarkProcessed(ctx context.Context, id int64) error
}

type transitionRepository struct {
	pool *pgxpool.Pool
}

// NewTransitionRepository returns a Postgres-backed implementation.
func NewTransitionRepository(pool *pgxpool.Pool) TransitionRepository {
	return &transitionRepository{pool: pool}
}

func (r *transitionRepository) Create(ctx context.Context, transition *domain.StatusTransition) error {
	const query = `
        INSERT INTO order_status_transitions (order_id, target_status, execute_at, processed)
        VALUES ($1, $2, $3, FALSE)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		transition.OrderID,
		string(transition.TargetStatus),
		transition.ExecuteAt,
	).Scan(&transition.ID)
}

func (r *transitionRepository) FindPending(ctx context.Context, now time.Time) ([]domain.StatusTransition, error) {
	const query = `
        SELECT id, order_id, target_status, execute_at, processed
        FROM order_status_transitions
        WHERE NOT processed AND execute_at <= $1
        ORDER BY execute_at`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitions []domain.StatusTransition
	for rows.Next() {
		var (
			t         domain.StatusTransition
			rawStatus string
		)
		if err := rows.Scan(&t.ID, &t.OrderID, &rawStatus, &t.ExecuteAt, &t.Processed); err != nil {
			return nil, err
		}
		status, ok := domain.ParseOrderStatus(rawStatus)
		if !ok {
			return nil, fmt.Errorf("unknown order status %q", rawStatus)
		}
		t.TargetStatus = status
		transitions = append(transitions, t)
	}
	return transitions, rows.Err()
}

func (r *transitionRepository) MarkProcessed(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE order_status_transitions SET processed=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
