package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aaleksaaleksic/food-ordering-system/internal/api/dto"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	"github.com/aaleksaaleksic/food-ordering-system/internal/service"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

// UsersHandler manages user administration endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(items)
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input, err := userInput(req.FirstName, req.LastName, req.Email, req.Password, req.Permissions, true)
	if err != nil {
		return err
	}
	user, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input, err := userInput(req.FirstName, req.LastName, req.Email, req.Password, req.Permissions, false)
	if err != nil {
		return err
	}
	user, err := h.service.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func userInput(firstName, lastName, email, password string, permissions []string, passwordRequired bool) (service.UserInput, error) {
	email = strings.TrimSpace(email)
	if firstName == "" || lastName == "" || email == "" {
		return service.UserInput{}, apperrors.NewValidationError("firstName, lastName, email required", nil)
	}
	if passwordRequired && password == "" {
		return service.UserInput{}, apperrors.NewValidationError("password required", nil)
	}
	perms, err := domain.ParsePermissions(permissions)
	if err != nil {
		return service.UserInput{}, apperrors.NewValidationError(err.Error(), nil)
	}
	return service.UserInput{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Password:    password,
		Permissions: perms,
	}, nil
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}
