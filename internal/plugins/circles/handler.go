package circles

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// Handler handles HTTP requests for circles.
type Handler struct {
	service *CircleService
}

// NewHandler creates a circles handler.
func NewHandler(service *CircleService) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/circles. The listing is public.
func (h *Handler) List(c echo.Context) error {
	circles, err := h.service.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"circles": circles})
}

// Detail handles GET /api/circles/:id.
func (h *Handler) Detail(c echo.Context) error {
	detail, err := h.service.Detail(c.Request().Context(), c.Param("id"), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detail)
}

// Join handles POST /api/circles/:id/join.
func (h *Handler) Join(c echo.Context) error {
	circle, err := h.service.Join(c.Request().Context(), c.Param("id"), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "successfully joined circle",
		"circle":  circle,
	})
}

// Leave handles POST /api/circles/:id/leave.
func (h *Handler) Leave(c echo.Context) error {
	if err := h.service.Leave(c.Request().Context(), c.Param("id"), auth.CurrentUserID(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "successfully left circle"})
}
