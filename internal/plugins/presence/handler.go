package presence

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// Handler handles HTTP requests for presence.
type Handler struct {
	service PresenceService
}

// NewHandler creates a presence handler.
func NewHandler(service PresenceService) *Handler {
	return &Handler{service: service}
}

// Online handles POST /api/presence/online.
func (h *Handler) Online(c echo.Context) error {
	if err := h.service.SetOnline(c.Request().Context(), auth.CurrentUserID(c), true); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "online"})
}

// Offline handles POST /api/presence/offline.
func (h *Handler) Offline(c echo.Context) error {
	if err := h.service.SetOnline(c.Request().Context(), auth.CurrentUserID(c), false); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "offline"})
}

// Status handles GET /api/presence/status/:user_id. This lookup is public:
// no session is required to ask whether someone is online.
func (h *Handler) Status(c echo.Context) error {
	view, err := h.service.Status(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// OnlineUsers handles GET /api/presence/online-users.
func (h *Handler) OnlineUsers(c echo.Context) error {
	profiles, err := h.service.OnlineUsers(c.Request().Context(), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"online_users": profiles,
		"count":        len(profiles),
	})
}
