package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aaleksaaleksic/food-ordering-system/internal/api/http/handlers"
	"github.com/aaleksaaleksic/food-ordering-system/internal/auth"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Orders         *handlers.OrdersHandler
	Dishes         *handlers.DishesHandler
	Errors         *handlers.ErrorsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/v1")

	v1.Post("/auth/login", cfg.Auth.Login)

	authed := v1.Group("", cfg.AuthMiddleware.Handle)
	authed.Get("/auth/me", cfg.Auth.Me)

	users := authed.Group("/users")
	users.Get("/", auth.RequirePermission(domain.PermReadUsers), cfg.Users.List)
	users.Get("/:id", auth.RequirePermission(domain.PermReadUsers), cfg.Users.Get)
	users.Post("/", auth.RequirePermission(domain.PermCreateUsers), cfg.Users.Create)
	users.Put("/:id", auth.RequirePermission(domain.PermUpdateUsers), cfg.Users.Update)
	users.Delete("/:id", auth.RequirePermission(domain.PermDeleteUsers), cfg.Users.Delete)

	orders := authed.Group("/orders")
	orders.Get("/", auth.RequirePermission(domain.PermSearchOrder), cfg.Orders.Search)
	orders.Post("/", auth.RequirePermission(domain.PermPlaceOrder), cfg.Orders.Place)
	orders.Post("/schedule", auth.RequirePermission(domain.PermScheduleOrder), cfg.Orders.Schedule)
	orders.Get("/:id", auth.RequirePermission(domain.PermTrackOrder), cfg.Orders.Track)
	orders.Post("/:id/cancel", auth.RequirePermission(domain.PermCancelOrder), cfg.Orders.Cancel)

	dishes := authed.Group("/dishes")
	dishes.Get("/", cfg.Dishes.List)
	dishes.Get("/categories", cfg.Dishes.Categories)
	dishes.Get("/search", cfg.Dishes.Search)
	dishes.Get("/category/:category", cfg.Dishes.ByCategory)
	dishes.Get("/:id", cfg.Dishes.Get)
	dishes.Put("/:id/availability", auth.RequireAllPermissions(domain.AdminPermissions...), cfg.Dishes.SetAvailability)

	errors := authed.Group("/errors")
	errors.Get("/history", cfg.Errors.History)
	errors.Get("/count", cfg.Errors.Count)
	errors.Get("/operation/:operation", auth.RequirePermission(domain.PermReadUsers), cfg.Errors.ByOperation)
	errors.Get("/timerange", auth.RequirePermission(domain.PermReadUsers), cfg.Errors.ByTimeRange)
	errors.Delete("/cleanup", auth.RequirePermission(domain.PermDeleteUsers), cfg.Errors.Cleanup)
	errors.Get("/", auth.RequireAllPermissions(domain.AdminPermissions...), cfg.Errors.All)
}
