package handlers

import (
	"github.com/aaleksaaleksic/food-ordering-system/internal/api/dto"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

func userResponse(user *domain.User) dto.UserResponse {
	perms := make([]string, 0, len(user.Permissions))
	for _, p := range user.Permissions {
		perms = append(perms, string(p))
	}
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		FullName:    user.FullName(),
		Permissions: perms,
	}
}

func dishResponse(dish *domain.Dish) dto.DishResponse {
	return dto.DishResponse{
		ID:          dish.ID,
		Name:        dish.Name,
		Description: dish.Description,
		Price:       dish.Price,
		Category:    dish.Category,
		Available:   dish.Available,
	}
}

func orderResponse(order *domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, dto.OrderItemResponse{
			ID:          item.ID,
			Dish:        dishResponse(&item.Dish),
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			TotalPrice:  item.TotalPrice(),
		})
	}
	return dto.OrderResponse{
		ID:                order.ID,
		Status:            string(order.Status),
		StatusDisplayName: order.Status.DisplayName(),
		CreatedBy:         userResponse(&order.CreatedBy),
		Active:            order.Active,
		CreatedAt:         order.CreatedAt,
		ScheduledFor:      order.ScheduledFor,
		Items:             items,
		TotalItems:        order.TotalItems(),
		TotalPrice:        order.TotalPrice(),
	}
}

func errorRecordResponse(record *domain.ErrorRecord) dto.ErrorRecordResponse {
	return dto.ErrorRecordResponse{
		ID:        record.ID,
		OrderID:   record.OrderID,
		Operation: record.Operation,
		Message:   record.Message,
		Timestamp: record.Timestamp,
		User:      userResponse(&record.User),
	}
}
