package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

// OrderRepository defines persistence access for orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Search(ctx context.Context, filter domain.OrderSearchFilter, restrictToUser *int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, active bool) error
	FindCancellable(ctx context.Context, id int64) (*domain.Order, error)
	CountActive(ctx context.Context) (int64, error)
	FindScheduledReady(ctx context.Context, now time.Time) ([]domain.Order, error)
	Activate(ctx context.Context, id int64) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertOrder = `
        INSERT INTO orders (status, created_by, active, created_at, scheduled_for)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	if err := tx.QueryRow(ctx, insertOrder,
		string(order.Status),
		order.CreatedBy.ID,
		order.Active,
		order.CreatedAt,
		order.ScheduledFor,
	).Scan(&order.ID); err != nil {
		return err
	}

	const insertItem = `
        INSERT INTO order_items (order_id, dish_id, quantity, price_at_time)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		if err := tx.QueryRow(ctx, insertItem,
			order.ID,
			item.Dish.ID,
			item.Quantity,
			item.PriceAtTime,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const orderSelect = `
    SELECT o.id, o.status, o.active, o.created_at, o.scheduled_for,
           u.id, u.first_name, u.last_name, u.email
    FROM orders o
    JOIN users u ON u.id = o.created_by`

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.queryOrders(ctx, orderSelect+` WHERE o.id=$1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &orders[0], nil
}

// Search builds the WHERE clause from whichever filter fields are set.
// restrictToUser forces owner scoping for non-admin callers; the filter's
// UserID is the privileged "search someone else's orders" parameter.
func (r *orderRepository) Search(ctx context.Context, filter domain.OrderSearchFilter, restrictToUser *int64) ([]domain.Order, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		conds = append(conds, "o.status = ANY("+arg(statuses)+")")
	}
	if filter.DateFrom != nil {
		conds = append(conds, "o.created_at >= "+arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conds = append(conds, "o.created_at <= "+arg(*filter.DateTo))
	}
	if restrictToUser != nil {
		conds = append(conds, "o.created_by = "+arg(*restrictToUser))
	} else if filter.UserID != nil {
		conds = append(conds, "o.created_by = "+arg(*filter.UserID))
	}

	query := orderSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY o.created_at DESC"

	return r.queryOrders(ctx, query, args...)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, active bool) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE orders SET status=$1, active=$2 WHERE id=$3`, string(status), active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FindCancellable loads the order only while it is still in ORDERED.
func (r *orderRepository) FindCancellable(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.queryOrders(ctx, orderSelect+` WHERE o.id=$1 AND o.status=$2`, id, string(domain.StatusOrdered))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &orders[0], nil
}

func (r *orderRepository) CountActive(ctx context.Context) (int64, error) {
	statuses := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		statuses = append(statuses, string(s))
	}

	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE active AND status = ANY($1)`, statuses).Scan(&count)
	return count, err
}

func (r *orderRepository) FindScheduledReady(ctx context.Context, now time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx,
		orderSelect+` WHERE o.scheduled_for IS NOT NULL AND o.scheduled_for <= $1 AND o.status=$2 AND NOT o.active`,
		now, string(domain.StatusOrdered))
}

func (r *orderRepository) Activate(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE orders SET active=TRUE, scheduled_for=NULL WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			order     domain.Order
			rawStatus string
		)
		if err := rows.Scan(
			&order.ID,
			&rawStatus,
			&order.Active,
			&order.CreatedAt,
			&order.ScheduledFor,
			&order.CreatedBy.ID,
			&order.CreatedBy.FirstName,
			&order.CreatedBy.LastName,
			&order.CreatedBy.Email,
		); err != nil {
			return nil, err
		}
		status, ok := domain.ParseOrderStatus(rawStatus)
		if !ok {
			return nil, fmt.Errorf("unknown order status %q", rawStatus)
		}
		order.Status = status
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	index := make(map[int64]*domain.Order, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
		index[orders[i].ID] = &orders[i]
	}

	const query = `
        SELECT i.order_id, i.id, i.quantity, i.price_at_time,
               d.id, d.name, d.description, d.price, d.category, d.available
        FROM order_items i
        JOIN dishes d ON d.id = i.dish_id
        WHERE i.order_id = ANY($1)
        ORDER BY i.id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			item    domain.OrderItem
		)
		if err := rows.Scan(
			&orderID,
			&item.ID,
			&item.Quantity,
			&item.PriceAtTime,
			&item.Dish.ID,
			&item.Dish.Name,
			&item.Dish.Description,
			&item.Dish.Price,
			&item.Dish.Category,
			&item.Dish.Available,
		); err != nil {
			return err
		}
		if order, ok := index[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}
