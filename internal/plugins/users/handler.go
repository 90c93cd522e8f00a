package users

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/middleware"
	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// Handler handles HTTP requests for the user directory.
type Handler struct {
	service UserService
}

// NewHandler creates a new user directory handler.
func NewHandler(service UserService) *Handler {
	return &Handler{service: service}
}

// UpdateProfile handles PUT /api/users/profile.
func (h *Handler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), auth.CurrentUserID(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]*Profile{"user": profile})
}

// Dashboard handles GET /api/users/dashboard.
func (h *Handler) Dashboard(c echo.Context) error {
	stats, message, err := h.service.Dashboard(c.Request().Context(), auth.CurrentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stats":         stats,
		"daily_message": message,
	})
}

// Referral handles GET /api/users/referral.
func (h *Handler) Referral(c echo.Context) error {
	summary, err := h.service.Referral(c.Request().Context(), auth.CurrentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}
