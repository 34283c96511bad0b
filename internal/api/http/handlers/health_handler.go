package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aaleksaaleksic/food-ordering-system/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes. Postgres holds
// users, orders and the failure log; Redis only backs the menu cache, so a
// Redis outage degrades menu reads without making the service unready.
type HealthHandler struct {
	serviceName string
	version     string
	orderStore  *persistence.Postgres
	menuCache   *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, orderStore *persistence.Postgres, menuCache *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, orderStore: orderStore, menuCache: menuCache}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.orderStore.Ping(ctx); err != nil {
		depStatus["orderStore"] = err.Error()
		ready = false
	} else {
		depStatus["orderStore"] = "ok"
	}

	if err := h.menuCache.Ping(ctx); err != nil {
		depStatus["menuCache"] = "degraded: " + err.Error()
	} else {
		depStatus["menuCache"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
