package blog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// Handler handles HTTP requests for posts and legal pages
type Handler struct {
	svc *Service
}

// NewHandler creates a new blog handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/blog. Admins may add ?drafts=true.
func (h *Handler) List(c echo.Context) error {
	drafts := c.QueryParam("drafts") == "true" && auth.GetUser(c) != nil
	list, err := h.svc.Published(c.Request().Context(), drafts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"posts": list})
}

// Get handles GET /api/blog/:slug
func (h *Handler) Get(c echo.Context) error {
	post, err := h.svc.Post(c.Request().Context(), c.Param("slug"), auth.GetUser(c) != nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Create handles POST /api/blog
func (h *Handler) Create(c echo.Context) error {
	var p content.BlogPost
	if err := c.Bind(&p); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), p, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/blog/:id
func (h *Handler) Update(c echo.Context) error {
	var p content.BlogPost
	if err := c.Bind(&p); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	updated, err := h.svc.Update(c.Request().Context(), c.Param("id"), p, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/blog/:id
func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), auth.Actor(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Import handles POST /api/blog/import with a JSON array of posts.
func (h *Handler) Import(c echo.Context) error {
	var in []content.BlogPost
	if err := c.Bind(&in); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	res, err := h.svc.ImportPosts(c.Request().Context(), in, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// GetLegal handles GET /api/legal/:slug
func (h *Handler) GetLegal(c echo.Context) error {
	page, err := h.svc.Legal(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// PutLegal handles PUT /api/legal/:slug
func (h *Handler) PutLegal(c echo.Context) error {
	var page content.LegalPage
	if err := c.Bind(&page); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	saved, err := h.svc.SaveLegal(c.Request().Context(), c.Param("slug"), page, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}
