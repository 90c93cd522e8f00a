package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/middleware"
)

// RegisterRoutes sets up the auth routes on the given group. Signup, login,
// and google auth are public; me and logout require a session.
//
// The credential POSTs are rate-limited per IP to slow brute-force and
// credential stuffing: 10 login attempts per minute, 5 signups.
func RegisterRoutes(g *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	g.POST("/auth/signup", h.Signup, middleware.RateLimit(5, time.Minute))
	g.POST("/auth/login", h.Login, middleware.RateLimit(10, time.Minute))
	g.POST("/auth/google", h.GoogleAuth, middleware.RateLimit(10, time.Minute))

	g.GET("/auth/me", h.Me, requireAuth)
	g.POST("/auth/logout", h.Logout, requireAuth)
}
