package messaging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/database"
)

// ConversationRepository defines the data access contract for conversations
// and their message logs.
type ConversationRepository interface {
	// Create inserts an empty conversation. A concurrent creator racing on
	// the same participant key surfaces as ErrConversationExists; the caller
	// re-reads and uses the winner.
	Create(ctx context.Context, conv *Conversation) error

	FindByKey(ctx context.Context, participantKey string) (*Conversation, error)
	FindByID(ctx context.Context, id string) (*Conversation, error)

	// ListForUser returns the user's direct conversations, newest activity
	// first, message logs included.
	ListForUser(ctx context.Context, userID string) ([]Conversation, error)

	// AppendMessages appends one or more messages and bumps last_message_at
	// in a single transaction. Append order within the batch is preserved.
	AppendMessages(ctx context.Context, conversationID string, messages []*Message, at time.Time) error

	// MarkRead flips read=true on every message in the conversation not sent
	// by readerID. Idempotent; ordering is untouched.
	MarkRead(ctx context.Context, conversationID, readerID string) error
}

// ErrConversationExists signals a lost create race on the participant key.
var ErrConversationExists = errors.New("conversation already exists")

// conversationRepository implements ConversationRepository with hand-written
// MariaDB queries. The message log lives in a separate table keyed by an
// auto-increment sequence, which makes append order a storage invariant
// instead of a convention.
type conversationRepository struct {
	db *sql.DB
}

// NewConversationRepository creates a conversation repository.
func NewConversationRepository(db *sql.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Create inserts an empty conversation row.
func (r *conversationRepository) Create(ctx context.Context, conv *Conversation) error {
	query := `INSERT INTO conversations (id, conv_type, participant_key, user_a, user_b,
	            last_message_at, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		conv.ID,
		conv.Type,
		participantKeyFor(conv),
		conv.UserID,
		conv.WithUserID,
		conv.LastMessageAt,
		conv.CreatedAt,
	)
	if database.IsDuplicateEntry(err) {
		return ErrConversationExists
	}
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}

	return nil
}

// FindByKey retrieves a conversation (with messages) by participant key.
// Returns apperror.NotFound when absent.
func (r *conversationRepository) FindByKey(ctx context.Context, participantKey string) (*Conversation, error) {
	query := `SELECT id, conv_type, user_a, user_b, last_message_at, created_at
	          FROM conversations WHERE participant_key = ?`
	return r.findOne(ctx, query, participantKey)
}

// FindByID retrieves a conversation (with messages) by id.
// Returns apperror.NotFound when absent.
func (r *conversationRepository) FindByID(ctx context.Context, id string) (*Conversation, error) {
	query := `SELECT id, conv_type, user_a, user_b, last_message_at, created_at
	          FROM conversations WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *conversationRepository) findOne(ctx context.Context, query string, arg any) (*Conversation, error) {
	conv := &Conversation{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&conv.ID,
		&conv.Type,
		&conv.UserID,
		&conv.WithUserID,
		&conv.LastMessageAt,
		&conv.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("conversation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}

	conv.Messages, err = r.loadMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	return conv, nil
}

// ListForUser returns direct conversations where the user is either
// participant, descending by last_message_at.
func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]Conversation, error) {
	query := `SELECT id, conv_type, user_a, user_b, last_message_at, created_at
	          FROM conversations
	          WHERE conv_type = ? AND (user_a = ? OR user_b = ?)
	          ORDER BY last_message_at DESC LIMIT 100`

	rows, err := r.db.QueryContext(ctx, query, TypeUserToUser, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	conversations := []Conversation{}
	for rows.Next() {
		var conv Conversation
		if err := rows.Scan(
			&conv.ID,
			&conv.Type,
			&conv.UserID,
			&conv.WithUserID,
			&conv.LastMessageAt,
			&conv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning conversation row: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range conversations {
		conversations[i].Messages, err = r.loadMessages(ctx, conversations[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return conversations, nil
}

// AppendMessages inserts the batch in order and bumps last_message_at,
// all inside one transaction so a crash can never leave the timestamp and
// the log inconsistent.
func (r *conversationRepository) AppendMessages(ctx context.Context, conversationID string, messages []*Message, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning append tx: %w", err)
	}
	defer tx.Rollback()

	insert := `INSERT INTO messages (message_id, conversation_id, sender_id, content,
	             is_ai, read_flag, delivered, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, msg := range messages {
		if _, err := tx.ExecContext(ctx, insert,
			msg.MessageID,
			conversationID,
			msg.SenderID,
			msg.Content,
			msg.IsAI,
			msg.Read,
			msg.Delivered,
			msg.Timestamp,
		); err != nil {
			return fmt.Errorf("inserting message: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE conversations SET last_message_at = ? WHERE id = ?`, at, conversationID)
	if err != nil {
		return fmt.Errorf("updating last_message_at: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFound("conversation not found")
	}

	return tx.Commit()
}

// MarkRead flips the read flag on every message not sent by readerID.
// A single UPDATE keeps it idempotent and leaves ordering untouched.
func (r *conversationRepository) MarkRead(ctx context.Context, conversationID, readerID string) error {
	query := `UPDATE messages SET read_flag = TRUE
	          WHERE conversation_id = ? AND sender_id != ?`

	_, err := r.db.ExecContext(ctx, query, conversationID, readerID)
	if err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}

	return nil
}

// loadMessages reads the full log in append (sequence) order.
func (r *conversationRepository) loadMessages(ctx context.Context, conversationID string) ([]Message, error) {
	query := `SELECT seq, message_id, sender_id, content, is_ai, read_flag, delivered, created_at
	          FROM messages WHERE conversation_id = ? ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.Seq,
			&msg.MessageID,
			&msg.SenderID,
			&msg.Content,
			&msg.IsAI,
			&msg.Read,
			&msg.Delivered,
			&msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// participantKeyFor derives the unique key for a conversation being created.
func participantKeyFor(conv *Conversation) string {
	if conv.Type == TypeAI {
		return aiKey(conv.UserID)
	}
	return pairKey(conv.UserID, *conv.WithUserID)
}
