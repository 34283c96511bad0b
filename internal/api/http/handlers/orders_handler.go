package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aaleksaaleksic/food-ordering-system/internal/api/dto"
	"github.com/aaleksaaleksic/food-ordering-system/internal/auth"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	"github.com/aaleksaaleksic/food-ordering-system/internal/service"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

// OrdersHandler serves the ordering endpoints.
type OrdersHandler struct {
	service *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{service: orderService}
}

// Search GET /orders.
func (h *OrdersHandler) Search(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseOrderSearch(c)
	if err != nil {
		return err
	}
	orders, err := h.service.Search(c.Context(), user, filter)
	if err != nil {
		return err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return c.JSON(items)
}

// Place POST /orders.
func (h *OrdersHandler) Place(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.service.Place(c.Context(), user, itemInputs(req.Items))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(orderResponse(order))
}

// Schedule POST /orders/schedule.
func (h *OrdersHandler) Schedule(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ScheduleOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ScheduledFor.IsZero() {
		return apperrors.NewValidationError("scheduledFor required", nil)
	}
	order, err := h.service.Schedule(c.Context(), user, itemInputs(req.Items), req.ScheduledFor)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(orderResponse(order))
}

// Track GET /orders/:id.
func (h *OrdersHandler) Track(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	order, err := h.service.Track(c.Context(), id, user)
	if err != nil {
		return err
	}
	return c.JSON(orderResponse(order))
}

// Cancel POST /orders/:id/cancel.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	order, err := h.service.Cancel(c.Context(), id, user)
	if err != nil {
		return err
	}
	return c.JSON(orderResponse(order))
}

func itemInputs(items []dto.OrderItemRequest) []service.OrderItemInput {
	inputs := make([]service.OrderItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.OrderItemInput{DishID: item.DishID, Quantity: item.Quantity})
	}
	return inputs
}

func parseOrderSearch(c *fiber.Ctx) (domain.OrderSearchFilter, error) {
	filter := domain.OrderSearchFilter{}

	args := c.Context().QueryArgs()
	for _, raw := range args.PeekMulti("status") {
		status, ok := domain.ParseOrderStatus(string(raw))
		if !ok {
			return filter, apperrors.NewValidationError("unknown status: "+string(raw), nil)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	from, err := parseQueryTime(c.Query("dateFrom"))
	if err != nil {
		return filter, err
	}
	filter.DateFrom = from

	to, err := parseQueryTime(c.Query("dateTo"))
	if err != nil {
		return filter, err
	}
	filter.DateTo = to

	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, apperrors.NewValidationError("invalid userId", nil)
		}
		filter.UserID = &id
	}
	return filter, nil
}

func parseQueryTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// date-only form, interpreted at midnight UTC
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid date: "+raw, nil)
		}
	}
	return &t, nil
}
