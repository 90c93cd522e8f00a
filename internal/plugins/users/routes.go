package users

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the user directory routes. All routes require an
// authenticated session; g is expected to carry the auth middleware.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.PUT("/users/profile", h.UpdateProfile)
	g.GET("/users/dashboard", h.Dashboard)
	g.GET("/users/referral", h.Referral)
}
