package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xelaconnect/backend/internal/apperror"
)

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repositories directly.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*User, string, error)
	Login(ctx context.Context, input LoginInput) (*User, string, error)
	GoogleLogin(ctx context.Context, sessionID string) (*User, string, error)

	// Resolve maps a bearer token to its owning user, enforcing expiry
	// lazily at lookup time. Every authenticated request funnels through
	// here via the RequireAuth middleware.
	Resolve(ctx context.Context, token string) (*User, error)

	// Logout revokes a single token. Idempotent.
	Logout(ctx context.Context, token string) error
}

// authService implements AuthService with argon2id hashing and store-backed
// opaque session tokens.
type authService struct {
	users      UserRepository
	sessions   SessionRepository
	identity   IdentityClient
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(users UserRepository, sessions SessionRepository, identity IdentityClient, sessionTTL time.Duration) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		identity:   identity,
		sessionTTL: sessionTTL,
	}
}

// Signup creates a new account. It validates email uniqueness, hashes the
// password with argon2id, persists the user, and issues a session so the
// client is logged in immediately.
func (s *authService) Signup(ctx context.Context, input SignupInput) (*User, string, error) {
	email := normalizeEmail(input.Email)

	// Check before doing expensive hashing. The unique index on email still
	// backstops this against a concurrent signup with the same address.
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, "", apperror.NewConflict("an account with this email already exists")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	now := time.Now().UTC()
	user := &User{
		ID:               uuid.NewString(),
		Email:            email,
		Name:             strings.TrimSpace(input.Name),
		PasswordHash:     hash,
		Age:              input.Age,
		City:             input.City,
		Bio:              input.Bio,
		Interests:        input.Interests,
		ReferralCode:     newReferralCode(),
		SubscriptionTier: "free",
		CreatedAt:        now,
		LastActive:       now,
	}
	if user.Interests == nil {
		user.Interests = []string{}
	}

	if err := s.users.Create(ctx, user); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, "", appErr
		}
		return nil, "", apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	slog.Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user.Sanitized(), token, nil
}

// Login authenticates a user by email and password. The error for an unknown
// email and the error for a wrong password are deliberately identical so the
// endpoint leaks nothing about which emails have accounts.
func (s *authService) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusNotFound {
			return nil, "", apperror.NewUnauthorized("invalid email or password")
		}
		return nil, "", apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, "", apperror.NewUnauthorized("invalid email or password")
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	// Refresh last_active (non-critical, logged on failure).
	if err := s.users.TouchLastActive(ctx, user.ID); err != nil {
		slog.Warn("failed to update last_active",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user.Sanitized(), token, nil
}

// GoogleLogin exchanges an identity-provider session id for a profile and
// creates or reuses the matching local account. Federated accounts are
// created without a password hash.
func (s *authService) GoogleLogin(ctx context.Context, sessionID string) (*User, string, error) {
	profile, err := s.identity.Lookup(ctx, sessionID)
	if err != nil {
		return nil, "", apperror.NewUpstream("identity", err)
	}

	email := normalizeEmail(profile.Email)
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if touchErr := s.users.TouchLastActive(ctx, user.ID); touchErr != nil {
			slog.Warn("failed to update last_active",
				slog.String("user_id", user.ID),
				slog.Any("error", touchErr),
			)
		}
	case isNotFound(err):
		now := time.Now().UTC()
		user = &User{
			ID:               uuid.NewString(),
			Email:            email,
			Name:             strings.TrimSpace(profile.Name),
			Interests:        []string{},
			ReferralCode:     newReferralCode(),
			SubscriptionTier: "free",
			CreatedAt:        now,
			LastActive:       now,
		}
		if profile.Picture != "" {
			picture := profile.Picture
			user.Picture = &picture
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			// A concurrent federated login for the same email may have won
			// the insert. Re-read and use the existing account.
			var appErr *apperror.AppError
			if errors.As(createErr, &appErr) && appErr.Code == http.StatusConflict {
				user, err = s.users.FindByEmail(ctx, email)
				if err != nil {
					return nil, "", apperror.NewInternal(fmt.Errorf("re-reading user after conflict: %w", err))
				}
			} else {
				return nil, "", apperror.NewInternal(fmt.Errorf("creating federated user: %w", createErr))
			}
		}
	default:
		return nil, "", apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	slog.Info("federated login",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user.Sanitized(), token, nil
}

// Resolve looks up a session by exact token match and returns the owning
// user. A missing row, an expired row, and an orphaned session (user record
// gone) are all reported as an invalid session -- never as a server error.
func (s *authService) Resolve(ctx context.Context, token string) (*User, error) {
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NewInvalidSession()
		}
		return nil, apperror.NewInternal(fmt.Errorf("looking up session: %w", err))
	}

	// A session is valid iff the current time is strictly before expires_at.
	// Expiry is enforced here, lazily; no background sweep is required.
	if !time.Now().Before(session.ExpiresAt) {
		// Opportunistic cleanup of the dead row.
		if delErr := s.sessions.DeleteByToken(ctx, token); delErr != nil {
			slog.Warn("failed to delete expired session", slog.Any("error", delErr))
		}
		return nil, apperror.NewInvalidSession()
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NewInvalidSession()
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading session user: %w", err))
	}

	return user.Sanitized(), nil
}

// Logout revokes the presented token. Revoking a token that is already gone
// is a no-op.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting session: %w", err))
	}
	return nil
}

// issueSession generates a random token and persists a session row with
// expiry TTL from now. Prior sessions for the same user are untouched --
// multiple concurrent sessions are allowed.
func (s *authService) issueSession(ctx context.Context, userID string) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	now := time.Now().UTC()
	session := &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	return token, nil
}

// --- Helpers ---

// generateSessionToken creates a cryptographically random hex-encoded token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// newReferralCode builds the short shareable code stored on each account.
func newReferralCode() string {
	return "XC" + strings.ToUpper(uuid.NewString()[:8])
}

// normalizeEmail lower-cases and trims an email for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isNotFound checks if an error is an apperror with a 404 code.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}
