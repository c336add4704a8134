package portfolio

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// Handler handles HTTP requests for portfolio projects
type Handler struct {
	svc *Service
}

// NewHandler creates a new portfolio handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/portfolio?category=
func (h *Handler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"projects": list})
}

// Create handles POST /api/portfolio
func (h *Handler) Create(c echo.Context) error {
	var item content.ProjectItem
	if err := c.Bind(&item); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), item, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/portfolio/:id
func (h *Handler) Update(c echo.Context) error {
	var item content.ProjectItem
	if err := c.Bind(&item); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	updated, err := h.svc.Update(c.Request().Context(), c.Param("id"), item, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/portfolio/:id
func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), auth.Actor(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
