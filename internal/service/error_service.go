package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	"github.com/aaleksaaleksic/food-ordering-system/internal/events"
	"github.com/aaleksaaleksic/food-ordering-system/internal/repository"
)

// ErrorService exposes the order failure log. Failures reach it through the
// event dispatcher rather than direct calls, so the ordering workflow never
// blocks on the log.
type ErrorService struct {
	records repository.ErrorRepository
	logger  *zap.Logger
}

// NewErrorService builds the service and wires it to order-failed events.
func NewErrorService(records repository.ErrorRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ErrorService {
	s := &ErrorService{records: records, logger: logger}
	if dispatcher != nil {
		dispatcher.Subscribe(events.EventOrderFailed, s.handleOrderFailed)
	}
	return s
}

func (s *ErrorService) handleOrderFailed(ctx context.Context, event events.Event) error {
	record, ok := event.Payload.(*domain.ErrorRecord)
	if !ok {
		s.logger.Warn("order failed event without error record payload", zap.String("event_id", event.ID))
		return nil
	}
	if err := s.records.Create(ctx, record); err != nil {
		s.logger.Error("failed to persist error record", zap.Error(err))
		return err
	}
	return nil
}

// ListForUser returns one page of the caller's own failures, newest first.
func (s *ErrorService) ListForUser(ctx context.Context, userID int64, page, size int) ([]domain.ErrorRecord, int64, error) {
	page, size = normalizePage(page, size)
	return s.records.ListForUser(ctx, userID, page, size)
}

// ListAll returns one page of every user's failures, newest first.
func (s *ErrorService) ListAll(ctx context.Context, page, size int) ([]domain.ErrorRecord, int64, error) {
	page, size = normalizePage(page, size)
	return s.records.ListAll(ctx, page, size)
}

// ListByOperation returns all failures recorded for one operation.
func (s *ErrorService) ListByOperation(ctx context.Context, operation string) ([]domain.ErrorRecord, error) {
	return s.records.ListByOperation(ctx, operation)
}

// ListByTimeRange returns all failures recorded inside the window.
func (s *ErrorService) ListByTimeRange(ctx context.Context, from, to time.Time) ([]domain.ErrorRecord, error) {
	return s.records.ListByTimeRange(ctx, from, to)
}

// CountForUser returns how many failures a user has accumulated.
func (s *ErrorService) CountForUser(ctx context.Context, userID int64) (int64, error) {
	return s.records.CountForUser(ctx, userID)
}

// Purge removes records older than the retention window.
func (s *ErrorService) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	deleted, err := s.records.DeleteOlderThan(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("purged error records", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}
