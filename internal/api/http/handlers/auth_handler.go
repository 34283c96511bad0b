package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aaleksaaleksic/food-ordering-system/internal/api/dto"
	"github.com/aaleksaaleksic/food-ordering-system/internal/auth"
	"github.com/aaleksaaleksic/food-ordering-system/internal/service"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

// AuthHandler serves login and identity lookup.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	_, token, expiresAt, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(userResponse(user))
}
