package dashboard

import (
	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// RegisterRoutes registers the Control Centre routes
func RegisterRoutes(e *echo.Echo, h *Handler, authMiddleware *auth.Middleware) {
	g := e.Group(BasePath)
	g.GET("/login", h.LoginPage)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)

	cc := g.Group("", authMiddleware.RequireSession(BasePath+"/login"))
	cc.GET("", h.Overview)
	cc.GET("/analytics", h.Analytics)

	cc.GET("/pages", h.Pages)
	cc.GET("/pages/:domain", h.EditPage)
	cc.POST("/pages/:domain", h.SavePage)
	cc.POST("/pages/:domain/reset", h.ResetPage)
	cc.POST("/pages/:domain/revisions/:revision/restore", h.RestorePage)

	cc.GET("/leads", h.Leads)
	cc.POST("/leads/:id", h.UpdateLead)
	cc.POST("/leads/:id/delete", h.DeleteLead)

	cc.GET("/pricing", h.Pricing)
	cc.POST("/pricing/:id/move/:direction", h.MovePlan)
	cc.POST("/pricing/:id/delete", h.DeletePlan)

	cc.GET("/*", h.Placeholder)
}
