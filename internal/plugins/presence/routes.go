package presence

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the presence routes. The status lookup is public;
// everything else requires an authenticated session.
func RegisterRoutes(g *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	g.GET("/presence/status/:user_id", h.Status)

	g.POST("/presence/online", h.Online, requireAuth)
	g.POST("/presence/offline", h.Offline, requireAuth)
	g.GET("/presence/online-users", h.OnlineUsers, requireAuth)
}
