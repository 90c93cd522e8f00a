package activity

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the activity feed routes. All routes require an
// authenticated session; g is expected to carry the auth middleware.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/activity", h.Feed)
	g.POST("/activity/:id/mark-read", h.MarkRead)
}
