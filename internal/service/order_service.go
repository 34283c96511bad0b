package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	"github.com/aaleksaaleksic/food-ordering-system/internal/events"
	"github.com/aaleksaaleksic/food-ordering-system/internal/repository"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

// Rule-violation codes recognized by clients.
const (
	CodeOrderLimit    = "ORDER_LIMIT"
	CodeScheduleError = "SCHEDULE_ERROR"
)

// OrderItemInput is one requested dish line.
type OrderItemInput struct {
	DishID   int64
	Quantity int
}

// OrderService owns the ordering workflow: placement, scheduling,
// cancellation, tracking, and the background sweeps that move orders through
// the kitchen statuses.
type OrderService struct {
	orders      repository.OrderRepository
	dishes      repository.DishRepository
	transitions repository.TransitionRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	maxActive   int
	now         func() time.Time
}

// NewOrderService builds the service.
func NewOrderService(
	orders repository.OrderRepository,
	dishes repository.DishRepository,
	transitions repository.TransitionRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	maxActive int,
) *OrderService {
	if maxActive <= 0 {
		maxActive = 3
	}
	return &OrderService{
		orders:      orders,
		dishes:      dishes,
		transitions: transitions,
		dispatcher:  dispatcher,
		logger:      logger,
		maxActive:   maxActive,
		now:         time.Now,
	}
}

// Search returns orders matching the filter. Administrators see all orders
// and may narrow by the filter's user id; everyone else is scoped to their
// own orders regardless of the filter.
func (s *OrderService) Search(ctx context.Context, user *domain.User, filter domain.OrderSearchFilter) ([]domain.Order, error) {
	if user.IsAdmin() {
		return s.orders.Search(ctx, filter, nil)
	}
	return s.orders.Search(ctx, filter, &user.ID)
}

// Place creates an immediate order. When the simultaneous-order limit is hit
// the attempt is recorded in the error log and rejected.
func (s *OrderService) Place(ctx context.Context, user *domain.User, items []OrderItemInput) (*domain.Order, error) {
	ok, err := s.canCreateNewOrder(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.rejectOrder(ctx, user, nil, domain.OpPlaceOrder, s.limitMessage())
	}

	order := &domain.Order{
		Status:    domain.StatusOrdered,
		CreatedBy: *user,
		Active:    true,
		CreatedAt: s.now(),
	}
	if err := s.buildItems(ctx, order, items); err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.scheduleTransition(ctx, order.ID, domain.StatusPreparing); err != nil {
		s.logger.Warn("failed to schedule status transition", zap.Int64("order_id", order.ID), zap.Error(err))
	}

	s.publish(ctx, events.EventOrderPlaced, order.ID, user.ID, nil)
	return order, nil
}

// Schedule creates a dormant order that the scheduler activates at the
// requested time. Past-dated requests are rejected outright.
func (s *OrderService) Schedule(ctx context.Context, user *domain.User, items []OrderItemInput, scheduledFor time.Time) (*domain.Order, error) {
	if scheduledFor.Before(s.now()) {
		return nil, s.rejectOrder(ctx, user, nil, domain.OpScheduleOrder, "Cannot schedule order in the past")
	}

	order := &domain.Order{
		Status:       domain.StatusOrdered,
		CreatedBy:    *user,
		Active:       false,
		CreatedAt:    s.now(),
		ScheduledFor: &scheduledFor,
	}
	if err := s.buildItems(ctx, order, items); err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventOrderScheduled, order.ID, user.ID, nil)
	return order, nil
}

// Cancel moves an order to CANCELED. Only orders still in ORDERED can be
// canceled, and only by their owner or an administrator.
func (s *OrderService) Cancel(ctx context.Context, id int64, user *domain.User) (*domain.Order, error) {
	order, err := s.orders.FindCancellable(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("cancellable order", map[string]any{"id": id})
		}
		return nil, err
	}

	if !user.IsAdmin() && order.CreatedBy.ID != user.ID {
		return nil, apperrors.NewForbidden("you can only cancel your own orders")
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, domain.StatusCanceled, false); err != nil {
		return nil, err
	}
	order.Status = domain.StatusCanceled
	order.Active = false

	s.publish(ctx, events.EventOrderCanceled, order.ID, user.ID, nil)
	return order, nil
}

// Track returns one order for its owner or an administrator.
func (s *OrderService) Track(ctx context.Context, id int64, user *domain.User) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": id})
		}
		return nil, err
	}

	if !user.IsAdmin() && order.CreatedBy.ID != user.ID {
		return nil, apperrors.NewForbidden("you can only track your own orders")
	}
	return order, nil
}

// ProcessScheduledOrders activates scheduled orders whose time has come,
// recording a failure when the simultaneous-order limit blocks activation.
func (s *OrderService) ProcessScheduledOrders(ctx context.Context) {
	ready, err := s.orders.FindScheduledReady(ctx, s.now())
	if err != nil {
		s.logger.Error("scheduled order sweep failed", zap.Error(err))
		return
	}

	for i := range ready {
		order := &ready[i]
		ok, err := s.canCreateNewOrder(ctx)
		if err != nil {
			s.logger.Error("active order count failed", zap.Error(err))
			return
		}
		if !ok {
			rec := domain.NewScheduledOrderFailure(order.ID, order.CreatedBy, s.limitMessage())
			s.publish(ctx, events.EventOrderFailed, order.ID, order.CreatedBy.ID, &rec)
			continue
		}

		if err := s.orders.Activate(ctx, order.ID); err != nil {
			rec := domain.NewScheduledOrderFailure(order.ID, order.CreatedBy, err.Error())
			s.publish(ctx, events.EventOrderFailed, order.ID, order.CreatedBy.ID, &rec)
			continue
		}
		if err := s.scheduleTransition(ctx, order.ID, domain.StatusPreparing); err != nil {
			s.logger.Warn("failed to schedule status transition", zap.Int64("order_id", order.ID), zap.Error(err))
		}
		s.logger.Info("scheduled order activated", zap.Int64("order_id", order.ID))
	}
}

// ProcessStatusTransitions applies due status moves and queues the next hop
// in the workflow.
func (s *OrderService) ProcessStatusTransitions(ctx context.Context) {
	pending, err := s.transitions.FindPending(ctx, s.now())
	if err != nil {
		s.logger.Error("transition sweep failed", zap.Error(err))
		return
	}

	for _, transition := range pending {
		order, err := s.orders.GetByID(ctx, transition.OrderID)
		if err != nil {
			s.logger.Warn("transition for missing order", zap.Int64("order_id", transition.OrderID), zap.Error(err))
			continue
		}
		// Canceled orders keep their pending transitions; mark them
		// processed without touching the order.
		if order.Status != domain.StatusCanceled {
			if err := s.orders.UpdateStatus(ctx, order.ID, transition.TargetStatus, order.Active); err != nil {
				s.logger.Warn("status update failed", zap.Int64("order_id", order.ID), zap.Error(err))
				continue
			}
			s.publish(ctx, events.EventOrderStatusChanged, order.ID, order.CreatedBy.ID, events.OrderStatusChangedPayload{
				OldStatus: order.Status,
				NewStatus: transition.TargetStatus,
			})

			if next := transition.TargetStatus.Next(); next != "" {
				if err := s.scheduleTransition(ctx, order.ID, next); err != nil {
					s.logger.Warn("failed to schedule status transition", zap.Int64("order_id", order.ID), zap.Error(err))
				}
			}
		}
		if err := s.transitions.MarkProcessed(ctx, transition.ID); err != nil {
			s.logger.Warn("failed to mark transition processed", zap.Int64("transition_id", transition.ID), zap.Error(err))
		}
	}
}

func (s *OrderService) canCreateNewOrder(ctx context.Context) (bool, error) {
	active, err := s.orders.CountActive(ctx)
	if err != nil {
		return false, err
	}
	return active < int64(s.maxActive), nil
}

func (s *OrderService) limitMessage() string {
	return fmt.Sprintf("Maximum number of simultaneous orders (%d) exceeded", s.maxActive)
}

// rejectOrder records the failure, emits the order-failed event, and returns
// the rule violation the handler will surface.
func (s *OrderService) rejectOrder(ctx context.Context, user *domain.User, orderID *int64, operation, message string) error {
	rec := domain.NewOrderFailure(*user, operation, message)
	rec.OrderID = orderID

	var eventOrderID int64
	if orderID != nil {
		eventOrderID = *orderID
	}
	s.publish(ctx, events.EventOrderFailed, eventOrderID, user.ID, &rec)

	code := CodeOrderLimit
	if operation == domain.OpScheduleOrder {
		code = CodeScheduleError
	}
	return apperrors.NewRuleViolation(code, message)
}

func (s *OrderService) scheduleTransition(ctx context.Context, orderID int64, target domain.OrderStatus) error {
	return s.transitions.Create(ctx, &domain.StatusTransition{
		OrderID:      orderID,
		TargetStatus: target,
		ExecuteAt:    s.now().Add(target.TransitionDelay()),
	})
}

func (s *OrderService) buildItems(ctx context.Context, order *domain.Order, items []OrderItemInput) error {
	if len(items) == 0 {
		return apperrors.NewValidationError("order requires at least one item", nil)
	}

	for _, input := range items {
		if input.Quantity <= 0 {
			return apperrors.NewValidationError("item quantity must be positive", map[string]any{"dishId": input.DishID})
		}
		dish, err := s.dishes.GetByID(ctx, input.DishID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("dish", map[string]any{"id": input.DishID})
			}
			return err
		}
		if !dish.Available {
			return apperrors.NewValidationError("dish is not available: "+dish.Name, map[string]any{"dishId": dish.ID})
		}
		order.Items = append(order.Items, domain.OrderItem{
			Dish:        *dish,
			Quantity:    input.Quantity,
			PriceAtTime: dish.Price,
		})
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, eventType events.EventType, orderID, userID int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		UserID:    userID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
