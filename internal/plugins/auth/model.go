// Package auth handles user accounts, password security, and session
// management for the XelaConnect backend. It provides signup, login,
// federated login via the external identity exchange, logout, and
// per-request session resolution for every authenticated endpoint.
package auth

import (
	"time"
)

// AISenderID is the synthetic sender identity used for companion messages.
// The companion plugin stamps it on AI messages; it never resolves to a
// real user record.
const AISenderID = "xela-ai"

// User represents a registered XelaConnect user. This is the domain model
// used throughout the application. Database scanning and JSON marshaling
// use this struct directly; PasswordHash is tagged out of every response.
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	Name                  string    `json:"name"`
	PasswordHash          string    `json:"-"` // Never expose in JSON responses.
	Age                   *int      `json:"age,omitempty"`
	City                  *string   `json:"city,omitempty"`
	Bio                   *string   `json:"bio,omitempty"`
	Picture               *string   `json:"picture,omitempty"`
	IdentityBadge         *string   `json:"identity_badge,omitempty"`
	Interests             []string  `json:"interests"`
	Streak                int       `json:"streak"`
	ConnectionsCount      int       `json:"connections_count"`
	Credits               int       `json:"credits"`
	ReferralCode          string    `json:"referral_code"`
	ReferralsCount        int       `json:"referrals_count"`
	WeeklyGrowth          int       `json:"weekly_growth"`
	EmotionalPathProgress int       `json:"emotional_path_progress"`
	SubscriptionTier      string    `json:"subscription_tier"`
	IsGuest               bool      `json:"is_guest"`
	IsOnline              bool      `json:"is_online"`
	CreatedAt             time.Time `json:"created_at"`
	LastActive            time.Time `json:"last_active"`
}

// Sanitized returns a copy of the user safe to hand to other plugins or
// serialize in a response. The JSON tag on PasswordHash already keeps it out
// of marshaled output; clearing it here protects code paths that copy fields
// into other view types.
func (u *User) Sanitized() *User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}

// Session is a store-backed record binding a bearer token to a user and an
// expiry instant. Tokens are opaque capabilities: validity is entirely
// decided by this row, never by anything embedded in the token itself.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- Request DTOs (bound from HTTP requests) ---

// SignupRequest holds the data submitted at account creation.
type SignupRequest struct {
	Email     string   `json:"email" validate:"required,email,max=255"`
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	Password  string   `json:"password" validate:"required,min=8,max=128"`
	Age       *int     `json:"age,omitempty" validate:"omitempty,gte=13,lte=120"`
	City      *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	Bio       *string  `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Interests []string `json:"interests,omitempty" validate:"omitempty,max=25,dive,max=50"`
}

// LoginRequest holds the data submitted at login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleAuthRequest carries the opaque session id handed back by the
// external identity provider's browser flow.
type GoogleAuthRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// AuthResponse is the success payload for signup, login, and google auth.
type AuthResponse struct {
	User         *User  `json:"user"`
	SessionToken string `json:"session_token"`
}

// --- Service Input DTOs (passed from handler to service) ---

// SignupInput is the validated input for creating a new account.
type SignupInput struct {
	Email     string
	Name      string
	Password  string
	Age       *int
	City      *string
	Bio       *string
	Interests []string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}
