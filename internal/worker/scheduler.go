package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aaleksaaleksic/food-ordering-system/internal/service"
)

// Scheduler runs the periodic order sweeps: activating scheduled orders and
// advancing orders through the kitchen statuses.
type Scheduler struct {
	orders              *service.OrderService
	logger              *zap.Logger
	scheduledInterval   time.Duration
	transitionsInterval time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler builds a scheduler around the order service.
func NewScheduler(orders *service.OrderService, logger *zap.Logger, scheduledInterval, transitionsInterval time.Duration) *Scheduler {
	return &Scheduler{
		orders:              orders,
		logger:              logger,
		scheduledInterval:   scheduledInterval,
		transitionsInterval: transitionsInterval,
	}
}

// Start launches the sweep goroutines. They stop when Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(2)
	go s.loop(ctx, "scheduled_orders", s.scheduledInterval, s.orders.ProcessScheduledOrders)
	go s.loop(ctx, "status_transitions", s.transitionsInterval, s.orders.ProcessStatusTransitions)

	s.logger.Info("scheduler started",
		zap.Duration("scheduled_orders_interval", s.scheduledInterval),
		zap.Duration("status_transitions_interval", s.transitionsInterval),
	)
}

// Stop cancels the sweeps and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, sweep func(context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}
