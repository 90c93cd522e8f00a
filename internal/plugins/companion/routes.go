package companion

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the companion routes. All routes require an
// authenticated session; g is expected to carry the auth middleware.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/xelatalks", h.Conversation)
	g.POST("/xelatalks/message", h.Send)
}
