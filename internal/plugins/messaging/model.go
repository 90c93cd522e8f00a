// Package messaging implements the conversation store: per-pair direct
// message logs, the per-user AI companion log, read-state transitions, and
// the ephemeral typing indicator. Messages are strictly append-only; a
// conversation's log is only ever extended or patched in place, never
// reordered.
package messaging

import (
	"sort"
	"time"

	"github.com/xelaconnect/backend/internal/plugins/users"
)

// Conversation type tags.
const (
	TypeUserToUser = "user_to_user"
	TypeAI         = "ai"
)

// Conversation is a container for an ordered message log between two
// parties. Direct conversations are keyed by the unordered pair of user
// ids; AI conversations are keyed by the single owning user.
type Conversation struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	UserID        string    `json:"user_id"`
	WithUserID    *string   `json:"with_user_id,omitempty"`
	Messages      []Message `json:"messages"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`

	// OtherUser is the counterpart's public profile, populated on reads of
	// direct conversations. Never persisted.
	OtherUser *users.Profile `json:"other_user,omitempty"`
}

// Message is a single unit in a conversation's log. Seq is the storage-level
// append order and stays internal; clients see insertion order implicitly
// through the array.
type Message struct {
	Seq       int64     `json:"-"`
	MessageID string    `json:"message_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsAI      bool      `json:"is_ai"`
	Read      bool      `json:"read"`
	Delivered bool      `json:"delivered"`
}

// pairKey normalizes an unordered user-id pair into the unique participant
// key, so (A,B) and (B,A) always address the same conversation row.
func pairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + "|" + ids[1]
}

// aiKey is the participant key for a user's single AI conversation.
func aiKey(userID string) string {
	return "ai|" + userID
}

// --- Request DTOs ---

// SendMessageRequest carries a direct or AI message body.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// TypingRequest reports the caller's typing state toward another user.
type TypingRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	IsTyping bool   `json:"is_typing"`
}
