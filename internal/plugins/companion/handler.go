package companion

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/middleware"
	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// SendMessageRequest carries a message to the companion.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// Handler handles HTTP requests for the AI companion.
type Handler struct {
	service *CompanionService
}

// NewHandler creates a companion handler.
func NewHandler(service *CompanionService) *Handler {
	return &Handler{service: service}
}

// Conversation handles GET /api/xelatalks.
func (h *Handler) Conversation(c echo.Context) error {
	conv, err := h.service.Conversation(c.Request().Context(), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"conversation": conv})
}

// Send handles POST /api/xelatalks/message.
func (h *Handler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	aiMsg, err := h.service.Send(c.Request().Context(), auth.CurrentUserID(c), req.Message)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"ai_message": aiMsg})
}
