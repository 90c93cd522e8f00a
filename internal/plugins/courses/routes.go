package courses

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the course routes. The catalog listing is public;
// the detail view needs a session to join in progress.
func RegisterRoutes(g *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	g.GET("/courses", h.List)
	g.GET("/courses/:id", h.Detail, requireAuth)
}
