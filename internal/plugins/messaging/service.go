package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/users"
)

// ConversationService defines the business logic contract for the
// conversation store. The companion plugin reuses the AI-conversation
// operations; everything else serves the direct-messaging endpoints.
type ConversationService interface {
	// ListForUser returns the caller's direct conversations, newest first,
	// each enriched with the counterpart's public profile.
	ListForUser(ctx context.Context, userID string) ([]Conversation, error)

	// GetOrCreateDirect returns the single conversation for the unordered
	// pair (userID, otherID), creating it lazily. (A,B) and (B,A) always
	// resolve to the same conversation.
	GetOrCreateDirect(ctx context.Context, userID, otherID string) (*Conversation, error)

	// SendDirect validates and appends a message from userID to otherID,
	// creating the conversation on first contact.
	SendDirect(ctx context.Context, userID, otherID, content string) (*Message, error)

	// MarkRead flips read=true on every message in the conversation the
	// reader did not send. Calling it twice is the same as calling it once.
	MarkRead(ctx context.Context, conversationID, readerID string) error

	// GetOrCreateAI returns the caller's single AI conversation.
	GetOrCreateAI(ctx context.Context, userID string) (*Conversation, error)

	// AppendAIExchange appends a user message and the AI's reply as one
	// ordered batch to the caller's AI conversation.
	AppendAIExchange(ctx context.Context, userID string, userMsg, aiMsg *Message) error
}

// conversationService implements ConversationService.
type conversationService struct {
	repo     ConversationRepository
	profiles users.ProfileRepository
}

// NewConversationService creates a conversation service.
func NewConversationService(repo ConversationRepository, profiles users.ProfileRepository) ConversationService {
	return &conversationService{repo: repo, profiles: profiles}
}

// ListForUser returns the caller's direct conversations enriched with the
// counterpart's public profile. A counterpart whose account has vanished
// leaves other_user unset rather than failing the listing.
func (s *conversationService) ListForUser(ctx context.Context, userID string) ([]Conversation, error) {
	conversations, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing conversations: %w", err))
	}

	for i := range conversations {
		other := counterpartID(&conversations[i], userID)
		profile, err := s.profiles.FindProfile(ctx, other)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, apperror.NewInternal(fmt.Errorf("loading counterpart profile: %w", err))
		}
		conversations[i].OtherUser = profile
	}

	return conversations, nil
}

// GetOrCreateDirect looks up the pair's conversation, creating an empty one
// if absent. A concurrent first contact from the other side is resolved by
// re-reading the row the winner created.
func (s *conversationService) GetOrCreateDirect(ctx context.Context, userID, otherID string) (*Conversation, error) {
	if otherID == userID {
		return nil, apperror.NewValidation("cannot start a conversation with yourself")
	}

	// The counterpart must exist; this also drives the other_user payload.
	profile, err := s.profiles.FindProfile(ctx, otherID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading counterpart profile: %w", err))
	}

	conv, err := s.getOrCreate(ctx, &Conversation{
		ID:         uuid.NewString(),
		Type:       TypeUserToUser,
		UserID:     userID,
		WithUserID: &otherID,
	}, pairKey(userID, otherID))
	if err != nil {
		return nil, err
	}

	conv.OtherUser = profile
	return conv, nil
}

// SendDirect appends a message to the pair's conversation, creating it on
// first contact. Empty or whitespace-only content is rejected before any
// write happens.
func (s *conversationService) SendDirect(ctx context.Context, userID, otherID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.NewValidation("message cannot be empty")
	}

	conv, err := s.GetOrCreateDirect(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &Message{
		MessageID: uuid.NewString(),
		SenderID:  userID,
		Content:   content,
		Timestamp: now,
		Delivered: true,
	}

	if err := s.repo.AppendMessages(ctx, conv.ID, []*Message{msg}, now); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("appending message: %w", err))
	}

	return msg, nil
}

// MarkRead validates the conversation and flips unread flags on messages the
// reader did not send. Own messages are never touched by this path.
func (s *conversationService) MarkRead(ctx context.Context, conversationID, readerID string) error {
	conv, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		if isNotFound(err) {
			return apperror.NewNotFound("conversation not found")
		}
		return apperror.NewInternal(fmt.Errorf("loading conversation: %w", err))
	}

	if !isParticipant(conv, readerID) {
		return apperror.NewForbidden("not a participant in this conversation")
	}

	if err := s.repo.MarkRead(ctx, conversationID, readerID); err != nil {
		return apperror.NewInternal(fmt.Errorf("marking read: %w", err))
	}

	return nil
}

// GetOrCreateAI returns the caller's AI conversation, creating it lazily.
func (s *conversationService) GetOrCreateAI(ctx context.Context, userID string) (*Conversation, error) {
	return s.getOrCreate(ctx, &Conversation{
		ID:     uuid.NewString(),
		Type:   TypeAI,
		UserID: userID,
	}, aiKey(userID))
}

// AppendAIExchange appends the user's message and the AI reply in order.
func (s *conversationService) AppendAIExchange(ctx context.Context, userID string, userMsg, aiMsg *Message) error {
	conv, err := s.GetOrCreateAI(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.repo.AppendMessages(ctx, conv.ID, []*Message{userMsg, aiMsg}, now); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperror.NewInternal(fmt.Errorf("appending AI exchange: %w", err))
	}

	return nil
}

// getOrCreate reads the conversation by key, inserting candidate when no row
// exists yet. Losing the create race to a concurrent request is benign: the
// unique participant key rejects the second insert and the winner's row is
// re-read and returned.
func (s *conversationService) getOrCreate(ctx context.Context, candidate *Conversation, key string) (*Conversation, error) {
	conv, err := s.repo.FindByKey(ctx, key)
	if err == nil {
		return conv, nil
	}
	if !isNotFound(err) {
		return nil, apperror.NewInternal(fmt.Errorf("looking up conversation: %w", err))
	}

	now := time.Now().UTC()
	candidate.LastMessageAt = now
	candidate.CreatedAt = now
	candidate.Messages = []Message{}

	createErr := s.repo.Create(ctx, candidate)
	if createErr == nil {
		return candidate, nil
	}
	if errors.Is(createErr, ErrConversationExists) {
		conv, err = s.repo.FindByKey(ctx, key)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("re-reading conversation after race: %w", err))
		}
		return conv, nil
	}

	return nil, apperror.NewInternal(fmt.Errorf("creating conversation: %w", createErr))
}

// counterpartID returns the participant that is not userID.
func counterpartID(conv *Conversation, userID string) string {
	if conv.UserID == userID && conv.WithUserID != nil {
		return *conv.WithUserID
	}
	return conv.UserID
}

// isParticipant reports whether userID is a party to the conversation.
func isParticipant(conv *Conversation, userID string) bool {
	if conv.UserID == userID {
		return true
	}
	return conv.WithUserID != nil && *conv.WithUserID == userID
}

// isNotFound checks if an error is an apperror with a 404 code.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}
