package safety

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the safety routes. All routes require an
// authenticated session; g is expected to carry the auth middleware.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/safety/block/:user_id", h.Block)
	g.POST("/safety/unblock/:user_id", h.Unblock)
	g.GET("/safety/blocked", h.BlockedUsers)
	g.GET("/safety/is-blocked/:user_id", h.IsBlocked)
	g.POST("/safety/report", h.Report)
}
