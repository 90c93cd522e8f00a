// Package connections implements friend connections between users: a
// request/accept flow with one record per unordered pair, plus the
// interest-based discovery feed.
package connections

import (
	"sort"
	"time"

	"github.com/xelaconnect/backend/internal/plugins/users"
)

// Connection statuses. A connection starts pending and can only move to
// accepted; there is no further transition.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Connection is one edge between two users. RequesterID sent the request,
// TargetID is the one who can accept it.
type Connection struct {
	ID                 string     `json:"id"`
	RequesterID        string     `json:"user_id"`
	TargetID           string     `json:"connected_user_id"`
	CompatibilityScore int        `json:"compatibility_score"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	AcceptedAt         *time.Time `json:"accepted_at,omitempty"`
}

// pairKey builds the canonical key for an unordered user pair. The UNIQUE
// index on it is what guarantees at most one connection per pair.
func pairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + "|" + ids[1]
}

// Recommendation is one entry in the discovery feed.
type Recommendation struct {
	User               users.Profile `json:"user"`
	CompatibilityScore int           `json:"compatibility_score"`
	CommonInterests    []string      `json:"common_interests"`
}

// --- Request DTOs ---

// RequestConnectionRequest carries a new connection request.
type RequestConnectionRequest struct {
	UserID string `json:"user_id" validate:"required"`
}
