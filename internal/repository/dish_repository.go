package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

// DishRepository defines persistence access for menu dishes.
type DishRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Dish, error)
	ListAvailable(ctx context.Context) ([]domain.Dish, error)
	ListAll(ctx context.Context) ([]domain.Dish, error)
	ListByCategory(ctx context.Context, category string, onlyAvailable bool) ([]domain.Dish, error)
	SearchByName(ctx context.Context, name string) ([]domain.Dish, error)
	Categories(ctx context.Context) ([]string, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

type dishRepository struct {
	pool *pgxpool.Pool
}

// NewDishRepository returns a Postgres-backed implementation.
func NewDishRepository(pool *pgxpool.Pool) DishRepository {
	return &dishRepository{pool: pool}
}

const dishColumns = `id, name, description, price, category, available, created_at, updated_at`

func (r *dishRepository) GetByID(ctx context.Context, id int64) (*domain.Dish, error) {
	var dish domain.Dish
	err := r.pool.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id=$1`, id).Scan(
		&dish.ID,
		&dish.Name,
		&dish.Description,
		&dish.Price,
		&dish.Category,
		&dish.Available,
		&dish.CreatedAt,
		&dish.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) ListAvailable(ctx context.Context) ([]domain.Dish, error) {
	return r.queryDishes(ctx, `SELECT `+dishColumns+` FROM dishes WHERE available ORDER BY category, name`)
}

func (r *dishRepository) ListAll(ctx context.Context) ([]domain.Dish, error) {
	return r.queryDishes(ctx, `SELECT `+dishColumns+` FROM dishes ORDER BY category, name`)
}

func (r *dishRepository) ListByCategory(ctx context.Context, category string, onlyAvailable bool) ([]domain.Dish, error) {
	if onlyAvailable {
		return r.queryDishes(ctx,
			`SELECT `+dishColumns+` FROM dishes WHERE category=$1 AND available ORDER BY name`, category)
	}
	return r.queryDishes(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE category=$1 ORDER BY name`, category)
}

func (r *dishRepository) SearchByName(ctx context.Context, name string) ([]domain.Dish, error) {
	return r.queryDishes(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, name)
}

func (r *dishRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM dishes ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *dishRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE dishes SET available=$1, updated_at=NOW() WHERE id=$2`, available, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dishRepository) queryDishes(ctx context.Context, query string, args ...any) ([]domain.Dish, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dishes []domain.Dish
	for rows.Next() {
		var dish domain.Dish
		if err := rows.Scan(
			&dish.ID,
			&dish.Name,
			&dish.Description,
			&dish.Price,
			&dish.Category,
			&dish.Available,
			&dish.CreatedAt,
			&dish.UpdatedAt,
		); err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}
