package safety

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/middleware"
	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// Handler handles HTTP requests for blocking and reporting.
type Handler struct {
	service *SafetyService
}

// NewHandler creates a safety handler.
func NewHandler(service *SafetyService) *Handler {
	return &Handler{service: service}
}

// Block handles POST /api/safety/block/:user_id.
func (h *Handler) Block(c echo.Context) error {
	targetID := c.Param("user_id")
	if err := h.service.Block(c.Request().Context(), auth.CurrentUserID(c), targetID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":    "user blocked",
		"blocked_id": targetID,
	})
}

// Unblock handles POST /api/safety/unblock/:user_id.
func (h *Handler) Unblock(c echo.Context) error {
	targetID := c.Param("user_id")
	if err := h.service.Unblock(c.Request().Context(), auth.CurrentUserID(c), targetID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":      "user unblocked",
		"unblocked_id": targetID,
	})
}

// BlockedUsers handles GET /api/safety/blocked.
func (h *Handler) BlockedUsers(c echo.Context) error {
	profiles, err := h.service.BlockedUsers(c.Request().Context(), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"blocked_users": profiles,
		"count":         len(profiles),
	})
}

// IsBlocked handles GET /api/safety/is-blocked/:user_id.
func (h *Handler) IsBlocked(c echo.Context) error {
	status, err := h.service.BlockStatusBetween(c.Request().Context(), auth.CurrentUserID(c), c.Param("user_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, status)
}

// Report handles POST /api/safety/report.
func (h *Handler) Report(c echo.Context) error {
	var req ReportRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	report, err := h.service.Report(c.Request().Context(), auth.CurrentUserID(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "report submitted",
		"report":  report,
	})
}
