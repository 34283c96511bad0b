package domain

import "time"

// Operation names recorded with failed order attempts.
const (
	OpPlaceOrder          = "PLACE_ORDER"
	OpScheduleOrder       = "SCHEDULE_ORDER"
	OpAutoCreateScheduled = "AUTO_CREATE_SCHEDULED"
)

// ErrorRecord is a persisted order failure, browsable per user or globally
// by administrators.
type ErrorRecord struct {
	ID        int64
	OrderID   *int64
	Operation string
	Message   string
	Timestamp time.Time
	User      User
}

// NewOrderFailure records an immediate order failure for a user.
func NewOrderFailure(user User, operation, message string) ErrorRecord {
	return ErrorRecord{
		Operation: operation,
		Message:   message,
		Timestamp: time.Now(),
		User:      user,
	}
}

// NewScheduledOrderFailure records a failure while activating a scheduled
// order.
func NewScheduledOrderFailure(orderID int64, user User, message string) ErrorRecord {
	rec := NewOrderFailure(user, OpAutoCreateScheduled, message)
	rec.OrderID = &orderID
	return rec
}
