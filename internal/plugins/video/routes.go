package video

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the video room routes. All routes require an
// authenticated session; g is expected to carry the auth middleware.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/video/rooms/create", h.CreateRoom)
	g.POST("/video/rooms/token", h.CreateToken)
	g.GET("/video/rooms", h.ListRooms)
	g.GET("/video/rooms/:name", h.GetRoom)
	g.DELETE("/video/rooms/:name", h.DeleteRoom)
}
