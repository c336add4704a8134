package pricing

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
	"github.com/mastermind-creat/techsafi/pkg/listops"
)

// Handler handles HTTP requests for pricing plans
type Handler struct {
	svc *Service
}

// NewHandler creates a new pricing handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/pricing?category=
func (h *Handler) List(c echo.Context) error {
	category := c.QueryParam("category")
	if category != "" && !ValidCategory(category) {
		return apperror.NewBadRequest("unknown category: " + category)
	}
	list, err := h.svc.List(c.Request().Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"plans": list, "categories": content.PricingCategories})
}

// Create handles POST /api/pricing
func (h *Handler) Create(c echo.Context) error {
	var plan content.PricingPlan
	if err := c.Bind(&plan); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), plan, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/pricing/:id
func (h *Handler) Update(c echo.Context) error {
	var plan content.PricingPlan
	if err := c.Bind(&plan); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	updated, err := h.svc.Update(c.Request().Context(), c.Param("id"), plan, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/pricing/:id
func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), auth.Actor(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Move handles POST /api/pricing/:id/move/:direction
func (h *Handler) Move(c echo.Context) error {
	dir, ok := listops.ParseDirection(c.Param("direction"))
	if !ok {
		return apperror.NewBadRequest("direction must be up or down")
	}
	list, err := h.svc.Move(c.Request().Context(), c.Param("id"), dir, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"plans": list})
}
