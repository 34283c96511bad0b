package domain

import "time"

// OrderStatus tracks an order through the kitchen workflow:
//
//	ORDERED -> PREPARING -> IN_DELIVERY -> DELIVERED
//	   \-> CANCELED
type OrderStatus string

const (
	StatusOrdered    OrderStatus = "ORDERED"
	StatusPreparing  OrderStatus = "PREPARING"
	StatusInDelivery OrderStatus = "IN_DELIVERY"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCanceled   OrderStatus = "CANCELED"
)

// ParseOrderStatus validates a raw status value.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch s := OrderStatus(raw); s {
	case StatusOrdered, StatusPreparing, StatusInDelivery, StatusDelivered, StatusCanceled:
		return s, true
	}
	return "", false
}

// DisplayName is the human label the API reports alongside the raw status.
func (s OrderStatus) DisplayName() string {
	switch s {
	case StatusOrdered:
		return "Ordered"
	case StatusPreparing:
		return "Preparing"
	case StatusInDelivery:
		return "In Delivery"
	case StatusDelivered:
		return "Delivered"
	case StatusCanceled:
		return "Canceled"
	}
	return string(s)
}

// Next returns the following workflow status, or "" at a terminal state.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case StatusOrdered:
		return StatusPreparing
	case StatusPreparing:
		return StatusInDelivery
	case StatusInDelivery:
		return StatusDelivered
	}
	return ""
}

// TransitionDelay is how long an order sits in a status before the scheduler
// advances it.
func (s OrderStatus) TransitionDelay() time.Duration {
	switch s {
	case StatusPreparing:
		return 10 * time.Second
	case StatusInDelivery:
		return 15 * time.Second
	case StatusDelivered:
		return 20 * time.Second
	}
	return 0
}

// ActiveStatuses are the statuses counted against the simultaneous-order
// limit.
var ActiveStatuses = []OrderStatus{StatusPreparing, StatusInDelivery}

// Order is a placed or scheduled food order.
type Order struct {
	ID           int64
	Status       OrderStatus
	CreatedBy    User
	Active       bool
	CreatedAt    time.Time
	ScheduledFor *time.Time
	Items        []OrderItem
}

// TotalItems sums the item quantities.
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums the item totals.
func (o *Order) TotalPrice() float64 {
	total := 0.0
	for i := range o.Items {
		total += o.Items[i].TotalPrice()
	}
	return total
}

// OrderItem is a dish line within an order. PriceAtTime freezes the dish
// price at ordering time.
type OrderItem struct {
	ID          int64
	Dish        Dish
	Quantity    int
	PriceAtTime float64
}

// TotalPrice is quantity times the frozen price.
func (i *OrderItem) TotalPrice() float64 {
	return float64(i.Quantity) * i.PriceAtTime
}

// StatusTransition is a pending timed move of an order to its next status.
type StatusTransition struct {
	ID           int64
	OrderID      int64
	TargetStatus OrderStatus
	ExecuteAt    time.Time
	Processed    bool
}

// OrderSearchFilter carries the optional search criteria; nil/empty fields
// are omitted from the query.
type OrderSearchFilter struct {
	Statuses []OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
	UserID   *int64
}
