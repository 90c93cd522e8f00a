package courses

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// Handler handles HTTP requests for the course catalog.
type Handler struct {
	service *CourseService
}

// NewHandler creates a courses handler.
func NewHandler(service *CourseService) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/courses. The catalog is public.
func (h *Handler) List(c echo.Context) error {
	courses, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"courses": courses})
}

// Detail handles GET /api/courses/:id.
func (h *Handler) Detail(c echo.Context) error {
	detail, err := h.service.Detail(c.Request().Context(), c.Param("id"), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detail)
}
