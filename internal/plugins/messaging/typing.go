package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xelaconnect/backend/internal/apperror"
)

// typingKeyPrefix namespaces typing indicator keys in Redis.
const typingKeyPrefix = "typing:"

// typingTTL is the staleness window: an indicator older than this is
// treated as "not typing". Redis key expiry enforces it directly, so a
// crashed client's stale "typing" can never outlive the window.
const typingTTL = 5 * time.Second

// TypingStore tracks ephemeral typing state between user pairs. Entries are
// directional: A typing to B is independent of B typing to A.
type TypingStore interface {
	Set(ctx context.Context, fromID, toID string, isTyping bool) error
	Get(ctx context.Context, fromID, toID string) (bool, error)
}

// typingStore implements TypingStore on Redis with per-key TTL.
type typingStore struct {
	redis *redis.Client
}

// NewTypingStore creates a typing indicator store.
func NewTypingStore(rdb *redis.Client) TypingStore {
	return &typingStore{redis: rdb}
}

// Set records the caller's typing state toward toID. A "stopped typing"
// update simply deletes the key rather than storing a false.
func (s *typingStore) Set(ctx context.Context, fromID, toID string, isTyping bool) error {
	key := typingKey(fromID, toID)

	if !isTyping {
		if err := s.redis.Del(ctx, key).Err(); err != nil {
			return apperror.NewInternal(fmt.Errorf("clearing typing indicator: %w", err))
		}
		return nil
	}

	if err := s.redis.Set(ctx, key, "1", typingTTL).Err(); err != nil {
		return apperror.NewInternal(fmt.Errorf("storing typing indicator: %w", err))
	}
	return nil
}

// Get reports whether fromID is currently typing to toID. Absence (never
// set, expired, or cleared) defaults to false.
func (s *typingStore) Get(ctx context.Context, fromID, toID string) (bool, error) {
	err := s.redis.Get(ctx, typingKey(fromID, toID)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, apperror.NewInternal(fmt.Errorf("reading typing indicator: %w", err))
	}
	return true, nil
}

// typingKey builds the directional Redis key.
func typingKey(fromID, toID string) string {
	return typingKeyPrefix + fromID + ":" + toID
}
