package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

// RequirePermission ensures the caller holds the given tag.
func RequirePermission(p domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.HasPermission(p) {
			return apperrors.NewForbidden("missing permission " + p.String())
		}
		return c.Next()
	}
}

// RequireAnyPermission passes when the caller holds at least one of the tags.
func RequireAnyPermission(perms ...domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(perms) > 0 && !user.HasAny(perms...) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}

// RequireAllPermissions passes only when every tag is held.
func RequireAllPermissions(perms ...domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.HasAll(perms...) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}
