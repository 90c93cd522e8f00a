package messaging

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/middleware"
	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// Handler handles HTTP requests for direct messaging and typing indicators.
type Handler struct {
	service ConversationService
	typing  TypingStore
}

// NewHandler creates a messaging handler.
func NewHandler(service ConversationService, typing TypingStore) *Handler {
	return &Handler{service: service, typing: typing}
}

// ListConversations handles GET /api/messaging/conversations.
func (h *Handler) ListConversations(c echo.Context) error {
	conversations, err := h.service.ListForUser(c.Request().Context(), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string][]Conversation{"conversations": conversations})
}

// GetConversation handles GET /api/messaging/conversations/:user_id,
// fetching or lazily creating the conversation with that user.
func (h *Handler) GetConversation(c echo.Context) error {
	otherID := c.Param("user_id")

	conv, err := h.service.GetOrCreateDirect(c.Request().Context(), auth.CurrentUserID(c), otherID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]*Conversation{"conversation": conv})
}

// SendMessage handles POST /api/messaging/conversations/:user_id/messages.
func (h *Handler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	msg, err := h.service.SendDirect(c.Request().Context(), auth.CurrentUserID(c), c.Param("user_id"), req.Message)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]*Message{"message": msg})
}

// MarkRead handles POST /api/messaging/conversations/:conversation_id/read.
func (h *Handler) MarkRead(c echo.Context) error {
	err := h.service.MarkRead(c.Request().Context(), c.Param("conversation_id"), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "messages marked as read"})
}

// SetTyping handles POST /api/messaging/typing.
func (h *Handler) SetTyping(c echo.Context) error {
	var req TypingRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	if err := h.typing.Set(c.Request().Context(), auth.CurrentUserID(c), req.UserID, req.IsTyping); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "typing indicator sent"})
}

// GetTyping handles GET /api/messaging/typing/:user_id, reporting whether
// that user is typing to the caller.
func (h *Handler) GetTyping(c echo.Context) error {
	isTyping, err := h.typing.Get(c.Request().Context(), c.Param("user_id"), auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"is_typing": isTyping})
}
