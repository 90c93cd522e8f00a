package activity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// Handler handles HTTP requests for the activity feed.
type Handler struct {
	service *ActivityService
}

// NewHandler creates an activity handler.
func NewHandler(service *ActivityService) *Handler {
	return &Handler{service: service}
}

// Feed handles GET /api/activity.
func (h *Handler) Feed(c echo.Context) error {
	activities, err := h.service.Feed(c.Request().Context(), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"activities": activities})
}

// MarkRead handles POST /api/activity/:id/mark-read.
func (h *Handler) MarkRead(c echo.Context) error {
	if err := h.service.MarkRead(c.Request().Context(), c.Param("id"), auth.CurrentUserID(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "activity marked as read"})
}
