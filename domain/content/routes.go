package content

import (
	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// RegisterRoutes registers the content routes
func RegisterRoutes(e *echo.Echo, h *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/content")
	optional := authMiddleware.Optional()
	required := authMiddleware.RequireAuth()

	// Reads of public domains are open; domainParam guards the private ones.
	g.GET("", h.List, optional)
	g.GET("/:domain", h.Get, optional)

	g.PUT("/:domain", h.Put, required)
	g.DELETE("/:domain", h.Reset, required)
	g.GET("/:domain/history", h.History, required)
	g.GET("/:domain/revisions/:revision", h.Revision, required)
	g.POST("/:domain/revisions/:revision/restore", h.Restore, required)
}
