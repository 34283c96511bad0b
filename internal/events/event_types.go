package events

import (
	"time"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderPlaced        EventType = "order_placed"
	EventOrderScheduled     EventType = "order_scheduled"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventOrderCanceled      EventType = "order_canceled"
	EventOrderFailed        EventType = "order_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   int64       `json:"order_id"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// Order-failed events carry a domain.ErrorRecord payload; a subscriber
// persists it into the error log.
