package domain

import "time"

// Dish is a menu entry. Unavailable dishes stay listed for administrators
// but cannot be ordered.
type Dish struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
