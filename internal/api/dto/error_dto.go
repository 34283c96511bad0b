package dto

import "time"

// ErrorRecordResponse is one entry of the order failure log.
type ErrorRecordResponse struct {
	ID        int64        `json:"id"`
	OrderID   *int64       `json:"orderId"`
	Operation string       `json:"operation"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	User      UserResponse `json:"user"`
}

// CleanupResponse reports how many log entries a purge removed.
type CleanupResponse struct {
	DeletedCount int64  `json:"deletedCount"`
	Message      string `json:"message"`
}
