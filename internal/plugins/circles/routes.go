package circles

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the circle routes. Browsing the list is public;
// membership-aware routes require a session.
func RegisterRoutes(g *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	g.GET("/circles", h.List)

	g.GET("/circles/:id", h.Detail, requireAuth)
	g.POST("/circles/:id/join", h.Join, requireAuth)
	g.POST("/circles/:id/leave", h.Leave, requireAuth)
}
