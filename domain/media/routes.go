package media

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// RegisterRoutes registers the media routes. All of them are admin-only.
func RegisterRoutes(e *echo.Echo, h *Handler, svc *Service, authMiddleware *auth.Middleware) {
	g := e.Group("/api/media")
	admin := authMiddleware.RequireAuth()

	// Leave room for the multipart envelope around the file itself.
	limit := middleware.BodyLimit(strconv.FormatInt((svc.MaxSize()+1<<20)>>10, 10) + "K")

	g.GET("", h.List, admin)
	g.POST("", h.Upload, admin, limit)
	g.DELETE("/:id", h.Delete, admin)
}
