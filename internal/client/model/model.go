// Package model holds the client-side views of the server's records. They
// are immutable snapshots per fetch: the client never edits one in place,
// only replaces it with a fresh server response.
package model

import "time"

// Identity is the authenticated user's profile plus permission set.
type Identity struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	FullName    string   `json:"fullName"`
	Permissions []string `json:"permissions"`
}

// User as listed by the administration endpoints.
type User struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	FullName    string   `json:"fullName"`
	Permissions []string `json:"permissions"`
}

// Dish is one menu entry.
type Dish struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
}

// OrderItem is one dish line with its price frozen at order time.
type OrderItem struct {
	ID          int64   `json:"id"`
	Dish        Dish    `json:"dish"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"priceAtTime"`
	TotalPrice  float64 `json:"totalPrice"`
}

// Order with the server-computed display fields.
type Order struct {
	ID                int64       `json:"id"`
	Status            string      `json:"status"`
	StatusDisplayName string      `json:"statusDisplayName"`
	CreatedBy         User        `json:"createdBy"`
	Active            bool        `json:"active"`
	CreatedAt         time.Time   `json:"createdAt"`
	ScheduledFor      *time.Time  `json:"scheduledFor"`
	Items             []OrderItem `json:"items"`
	TotalItems        int         `json:"totalItems"`
	TotalPrice        float64     `json:"totalPrice"`
}

// OrderItemInput is one requested dish line for placing or scheduling an
// order.
type OrderItemInput struct {
	DishID   int64 `json:"dishId"`
	Quantity int   `json:"quantity"`
}

// ErrorRecord is one entry of the order failure log.
type ErrorRecord struct {
	ID        int64     `json:"id"`
	OrderID   *int64    `json:"orderId"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	User      User      `json:"user"`
}

// CleanupResult reports how many failure-log entries a purge removed.
type CleanupResult struct {
	DeletedCount int64  `json:"deletedCount"`
	Message      string `json:"message"`
}

// Page is the server's pagination envelope. The client tracks only the page
// it asked for and trusts the server-reported totals.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}
