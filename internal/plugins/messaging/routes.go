package messaging

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the messaging routes. All routes require an
// authenticated session; g is expected to carry the auth middleware.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/messaging/conversations", h.ListConversations)
	g.GET("/messaging/conversations/:user_id", h.GetConversation)
	g.POST("/messaging/conversations/:user_id/messages", h.SendMessage)
	g.POST("/messaging/conversations/:conversation_id/read", h.MarkRead)
	g.POST("/messaging/typing", h.SetTyping)
	g.GET("/messaging/typing/:user_id", h.GetTyping)
}
