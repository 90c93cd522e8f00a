package connections

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the connection routes. All routes require an
// authenticated session; g is expected to carry the auth middleware.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/connections/request", h.Request)
	g.POST("/connections/:id/accept", h.Accept)
	g.GET("/connections", h.List)
	g.GET("/discover", h.Discover)
}
