package companion

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/auth"
	"github.com/xelaconnect/backend/internal/plugins/messaging"
)

// fallbackReply is returned whenever the LLM call fails for any reason. The
// companion degrades to a canned empathetic line rather than surfacing an
// error to someone mid-conversation.
const fallbackReply = "I'm here for you. Sometimes my thoughts get tangled, but I'm listening. Could you share a bit more?"

// historyLimit caps how many prior turns are replayed to the LLM.
const historyLimit = 20

// CompanionService wires the conversation store to the chat client.
type CompanionService struct {
	conversations messaging.ConversationService
	chat          ChatClient
	logger        *slog.Logger
}

// NewCompanionService creates the companion service.
func NewCompanionService(conversations messaging.ConversationService, chat ChatClient, logger *slog.Logger) *CompanionService {
	return &CompanionService{conversations: conversations, chat: chat, logger: logger}
}

// Conversation returns the caller's AI conversation, creating it on first
// visit.
func (s *CompanionService) Conversation(ctx context.Context, userID string) (*messaging.Conversation, error) {
	return s.conversations.GetOrCreateAI(ctx, userID)
}

// Send appends the user's message, asks the LLM for a reply, and appends
// both as one exchange. An LLM failure never fails the request: the user
// message is still recorded and the companion answers with the fallback.
func (s *CompanionService) Send(ctx context.Context, userID, content string) (*messaging.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.NewValidation("message cannot be empty")
	}

	conv, err := s.conversations.GetOrCreateAI(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := s.chat.Reply(ctx, chatHistory(conv.Messages), content)
	if err != nil {
		s.logger.Error("companion reply failed", "user_id", userID, "error", err)
		reply = fallbackReply
	}

	now := time.Now().UTC()
	userMsg := &messaging.Message{
		MessageID: uuid.NewString(),
		SenderID:  userID,
		Content:   content,
		Timestamp: now,
		Delivered: true,
	}
	aiMsg := &messaging.Message{
		MessageID: uuid.NewString(),
		SenderID:  auth.AISenderID,
		Content:   reply,
		Timestamp: now,
		IsAI:      true,
		Delivered: true,
	}

	if err := s.conversations.AppendAIExchange(ctx, userID, userMsg, aiMsg); err != nil {
		return nil, err
	}

	return aiMsg, nil
}

// chatHistory converts stored messages into LLM turns, newest turns last.
func chatHistory(messages []messaging.Message) []ChatMessage {
	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}

	history := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		if msg.IsAI {
			role = "assistant"
		}
		history = append(history, ChatMessage{Role: role, Content: msg.Content})
	}

	return history
}
