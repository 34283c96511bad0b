package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aaleksaaleksic/food-ordering-system/internal/api/dto"
	"github.com/aaleksaaleksic/food-ordering-system/internal/auth"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	"github.com/aaleksaaleksic/food-ordering-system/internal/service"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

// ErrorsHandler exposes the order failure log.
type ErrorsHandler struct {
	service *service.ErrorService
}

// NewErrorsHandler constructs handler.
func NewErrorsHandler(errorService *service.ErrorService) *ErrorsHandler {
	return &ErrorsHandler{service: errorService}
}

// History GET /errors/history returns the caller's own failures, paginated.
func (h *ErrorsHandler) History(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page, size := pageParams(c)
	records, total, err := h.service.ListForUser(c.Context(), user.ID, page, size)
	if err != nil {
		return err
	}
	return c.JSON(errorPage(records, total, page, size))
}

// All GET /errors returns every user's failures, admin only (enforced in the
// router).
func (h *ErrorsHandler) All(c *fiber.Ctx) error {
	page, size := pageParams(c)
	records, total, err := h.service.ListAll(c.Context(), page, size)
	if err != nil {
		return err
	}
	return c.JSON(errorPage(records, total, page, size))
}

// Count GET /errors/count returns how many failures the caller has.
func (h *ErrorsHandler) Count(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	count, err := h.service.CountForUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

// ByOperation GET /errors/operation/:operation lists every failure recorded
// for one operation.
func (h *ErrorsHandler) ByOperation(c *fiber.Ctx) error {
	operation := c.Params("operation")
	records, err := h.service.ListByOperation(c.Context(), operation)
	if err != nil {
		return err
	}
	return c.JSON(errorRecordList(records))
}

// ByTimeRange GET /errors/timerange lists every failure inside the window.
func (h *ErrorsHandler) ByTimeRange(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return err
	}
	records, err := h.service.ListByTimeRange(c.Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(errorRecordList(records))
}

// Cleanup DELETE /errors/cleanup purges records older than the given cutoff.
func (h *ErrorsHandler) Cleanup(c *fiber.Ctx) error {
	olderThan, err := queryTime(c, "olderThan")
	if err != nil {
		return err
	}
	deleted, err := h.service.Purge(c.Context(), olderThan)
	if err != nil {
		return err
	}
	return c.JSON(dto.CleanupResponse{
		DeletedCount: deleted,
		Message:      fmt.Sprintf("Deleted %d error records older than %s", deleted, olderThan.Format(time.RFC3339)),
	})
}

func queryTime(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, apperrors.NewValidationError(name+" is required", nil)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(name+" must be an RFC 3339 timestamp", nil)
	}
	return t, nil
}

func pageParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 0)
	if page < 0 {
		page = 0
	}
	size := c.QueryInt("size", 10)
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}

func errorRecordList(records []domain.ErrorRecord) []dto.ErrorRecordResponse {
	items := make([]dto.ErrorRecordResponse, 0, len(records))
	for i := range records {
		items = append(items, errorRecordResponse(&records[i]))
	}
	return items
}

func errorPage(records []domain.ErrorRecord, total int64, page, size int) dto.Page[dto.ErrorRecordResponse] {
	return dto.NewPage(errorRecordList(records), total, page, size)
}
