package contact

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// Handler handles HTTP requests for contact submissions
type Handler struct {
	svc *Service
}

// NewHandler creates a new contact handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Submit handles POST /api/contact
func (h *Handler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	created, err := h.svc.Submit(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": created.ID, "status": created.Status})
}

// List handles GET /api/contact/submissions?q=&status=&priority=
func (h *Handler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), Filter{
		Query:    c.QueryParam("q"),
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"submissions": list, "total": len(list)})
}

// Get handles GET /api/contact/submissions/:id
func (h *Handler) Get(c echo.Context) error {
	lead, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lead)
}

// Update handles PATCH /api/contact/submissions/:id
func (h *Handler) Update(c echo.Context) error {
	var p Patch
	if err := c.Bind(&p); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	lead, err := h.svc.Update(c.Request().Context(), c.Param("id"), p, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lead)
}

// Delete handles DELETE /api/contact/submissions/:id
func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), auth.Actor(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /api/contact/stats
func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}
