package connections

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/middleware"
	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// Handler handles HTTP requests for connections and discovery.
type Handler struct {
	service *ConnectionService
}

// NewHandler creates a connections handler.
func NewHandler(service *ConnectionService) *Handler {
	return &Handler{service: service}
}

// Request handles POST /api/connections/request.
func (h *Handler) Request(c echo.Context) error {
	var req RequestConnectionRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	conn, err := h.service.Request(c.Request().Context(), auth.CurrentUserID(c), req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message":    "connection request sent",
		"connection": conn,
	})
}

// Accept handles POST /api/connections/:id/accept.
func (h *Handler) Accept(c echo.Context) error {
	conn, err := h.service.Accept(c.Request().Context(), auth.CurrentUserID(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":    "connection accepted",
		"connection": conn,
	})
}

// List handles GET /api/connections.
func (h *Handler) List(c echo.Context) error {
	conns, err := h.service.List(c.Request().Context(), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"connections": conns})
}

// Discover handles GET /api/discover.
func (h *Handler) Discover(c echo.Context) error {
	recs, err := h.service.Discover(c.Request().Context(), auth.CurrentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"people": recs})
}
