package companion

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/auth"
	"github.com/xelaconnect/backend/internal/plugins/messaging"
)

// --- Mocks ---

// mockConversations implements messaging.ConversationService with a single
// in-memory AI conversation per user.
type mockConversations struct {
	conversations map[string]*messaging.Conversation
}

func newMockConversations() *mockConversations {
	return &mockConversations{conversations: map[string]*messaging.Conversation{}}
}

func (m *mockConversations) ListForUser(ctx context.Context, userID string) ([]messaging.Conversation, error) {
	return nil, nil
}

func (m *mockConversations) GetOrCreateDirect(ctx context.Context, userID, otherID string) (*messaging.Conversation, error) {
	return nil, errors.New("not used")
}

func (m *mockConversations) SendDirect(ctx context.Context, userID, otherID, content string) (*messaging.Message, error) {
	return nil, errors.New("not used")
}

func (m *mockConversations) MarkRead(ctx context.Context, conversationID, readerID string) error {
	return nil
}

func (m *mockConversations) GetOrCreateAI(ctx context.Context, userID string) (*messaging.Conversation, error) {
	if conv, ok := m.conversations[userID]; ok {
		return conv, nil
	}
	conv := &messaging.Conversation{ID: "ai-" + userID, Type: messaging.TypeAI, UserID: userID}
	m.conversations[userID] = conv
	return conv, nil
}

func (m *mockConversations) AppendAIExchange(ctx context.Context, userID string, userMsg, aiMsg *messaging.Message) error {
	conv, err := m.GetOrCreateAI(ctx, userID)
	if err != nil {
		return err
	}
	conv.Messages = append(conv.Messages, *userMsg, *aiMsg)
	return nil
}

// mockChat implements ChatClient.
type mockChat struct {
	replyFn func(ctx context.Context, history []ChatMessage, userMessage string) (string, error)

	gotHistory []ChatMessage
}

func (m *mockChat) Reply(ctx context.Context, history []ChatMessage, userMessage string) (string, error) {
	m.gotHistory = history
	if m.replyFn != nil {
		return m.replyFn(ctx, history, userMessage)
	}
	return "a gentle reply", nil
}

func newTestService(conversations *mockConversations, chat *mockChat) *CompanionService {
	return NewCompanionService(conversations, chat, slog.Default())
}

// --- Tests ---

func TestSend_AppendsExchange(t *testing.T) {
	conversations := newMockConversations()
	svc := newTestService(conversations, &mockChat{})

	aiMsg, err := svc.Send(context.Background(), "alice", "I had a rough day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aiMsg.SenderID != auth.AISenderID {
		t.Errorf("AI reply sender must be %q, got %q", auth.AISenderID, aiMsg.SenderID)
	}
	if !aiMsg.IsAI {
		t.Error("AI reply must be flagged is_ai")
	}

	conv := conversations.conversations["alice"]
	if len(conv.Messages) != 2 {
		t.Fatalf("expected both turns appended, got %d messages", len(conv.Messages))
	}
	if conv.Messages[0].SenderID != "alice" || conv.Messages[0].Content != "I had a rough day" {
		t.Errorf("user turn wrong: %+v", conv.Messages[0])
	}
	if conv.Messages[1].Content != "a gentle reply" {
		t.Errorf("AI turn wrong: %+v", conv.Messages[1])
	}
}

func TestSend_FallbackOnChatFailure(t *testing.T) {
	conversations := newMockConversations()
	chat := &mockChat{
		replyFn: func(ctx context.Context, history []ChatMessage, userMessage string) (string, error) {
			return "", errors.New("completion endpoint timed out")
		},
	}
	svc := newTestService(conversations, chat)

	aiMsg, err := svc.Send(context.Background(), "alice", "are you there?")
	if err != nil {
		t.Fatalf("a chat failure must not fail the request: %v", err)
	}
	if aiMsg.Content != fallbackReply {
		t.Errorf("expected the fallback text, got %q", aiMsg.Content)
	}

	// The user's message is still recorded alongside the fallback.
	conv := conversations.conversations["alice"]
	if len(conv.Messages) != 2 {
		t.Fatalf("expected both turns appended, got %d", len(conv.Messages))
	}
}

func TestSend_RejectsWhitespace(t *testing.T) {
	conversations := newMockConversations()
	svc := newTestService(conversations, &mockChat{})

	for _, content := range []string{"", "   ", "\t\n"} {
		_, err := svc.Send(context.Background(), "alice", content)
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) || appErr.Code != 422 {
			t.Errorf("content %q: expected 422, got %v", content, err)
		}
	}

	if len(conversations.conversations) != 0 {
		t.Error("rejected sends must not create a conversation")
	}
}

func TestSend_ReplaysHistoryToChat(t *testing.T) {
	conversations := newMockConversations()
	chat := &mockChat{}
	svc := newTestService(conversations, chat)
	ctx := context.Background()

	if _, err := svc.Send(ctx, "alice", "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, "alice", "second"); err != nil {
		t.Fatal(err)
	}

	// The second call carries the first exchange as history, with the AI
	// turn mapped to the assistant role.
	if len(chat.gotHistory) != 2 {
		t.Fatalf("expected 2 history turns, got %d", len(chat.gotHistory))
	}
	if chat.gotHistory[0].Role != "user" || chat.gotHistory[1].Role != "assistant" {
		t.Errorf("history roles wrong: %+v", chat.gotHistory)
	}
}
