package dto

import "time"

// OrderItemRequest is one requested dish line.
type OrderItemRequest struct {
	DishID   int64 `json:"dishId"`
	Quantity int   `json:"quantity"`
}

// PlaceOrderRequest payload.
type PlaceOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// ScheduleOrderRequest payload.
type ScheduleOrderRequest struct {
	Items        []OrderItemRequest `json:"items"`
	ScheduledFor time.Time          `json:"scheduledFor"`
}

// DishResponse describes one menu entry.
type DishResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
}

// OrderItemResponse is one dish line of an order, priced at order time.
type OrderItemResponse struct {
	ID          int64        `json:"id"`
	Dish        DishResponse `json:"dish"`
	Quantity    int          `json:"quantity"`
	PriceAtTime float64      `json:"priceAtTime"`
	TotalPrice  float64      `json:"totalPrice"`
}

// OrderResponse is the full order shape returned to clients.
type OrderResponse struct {
	ID                int64               `json:"id"`
	Status            string              `json:"status"`
	StatusDisplayName string              `json:"statusDisplayName"`
	CreatedBy         UserResponse        `json:"createdBy"`
	Active            bool                `json:"active"`
	CreatedAt         time.Time           `json:"createdAt"`
	ScheduledFor      *time.Time          `json:"scheduledFor"`
	Items             []OrderItemResponse `json:"items"`
	TotalItems        int                 `json:"totalItems"`
	TotalPrice        float64             `json:"totalPrice"`
}
