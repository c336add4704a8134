package blog

import (
	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// RegisterRoutes registers the blog and legal routes
func RegisterRoutes(e *echo.Echo, h *Handler, authMiddleware *auth.Middleware) {
	optional := authMiddleware.Optional()
	admin := authMiddleware.RequireAuth()

	b := e.Group("/api/blog")
	b.GET("", h.List, optional)
	b.GET("/:slug", h.Get, optional)
	b.POST("", h.Create, admin)
	b.POST("/import", h.Import, admin)
	b.PUT("/:id", h.Update, admin)
	b.DELETE("/:id", h.Delete, admin)

	l := e.Group("/api/legal")
	l.GET("/:slug", h.GetLegal)
	l.PUT("/:slug", h.PutLegal, admin)
}
