package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aaleksaaleksic/food-ordering-system/internal/api/dto"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	"github.com/aaleksaaleksic/food-ordering-system/internal/service"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

// DishesHandler serves the menu endpoints.
type DishesHandler struct {
	service *service.DishService
}

// NewDishesHandler constructs handler.
func NewDishesHandler(dishService *service.DishService) *DishesHandler {
	return &DishesHandler{service: dishService}
}

// List GET /dishes. By default only available dishes; ?all=true returns the
// full menu.
func (h *DishesHandler) List(c *fiber.Ctx) error {
	var (
		dishes []domain.Dish
		err    error
	)
	if c.QueryBool("all") {
		dishes, err = h.service.ListAll(c.Context())
	} else {
		dishes, err = h.service.ListAvailable(c.Context())
	}
	if err != nil {
		return err
	}
	return c.JSON(dishResponses(dishes))
}

// Get GET /dishes/:id.
func (h *DishesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	dish, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dishResponse(dish))
}

// ByCategory GET /dishes/category/:category.
func (h *DishesHandler) ByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return apperrors.NewValidationError("category required", nil)
	}
	dishes, err := h.service.ListByCategory(c.Context(), category, !c.QueryBool("all"))
	if err != nil {
		return err
	}
	return c.JSON(dishResponses(dishes))
}

// Search GET /dishes/search?name=.
func (h *DishesHandler) Search(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	dishes, err := h.service.SearchByName(c.Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(dishResponses(dishes))
}

// Categories GET /dishes/categories.
func (h *DishesHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.Context())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(categories)
}

// SetAvailability PUT /dishes/:id/availability.
func (h *DishesHandler) SetAvailability(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req struct {
		Available bool `json:"available"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SetAvailability(c.Context(), id, req.Available); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func dishResponses(dishes []domain.Dish) []dto.DishResponse {
	items := make([]dto.DishResponse, 0, len(dishes))
	for i := range dishes {
		items = append(items, dishResponse(&dishes[i]))
	}
	return items
}
