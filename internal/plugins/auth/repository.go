package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/database"
)

// UserRepository defines the data access contract for user account rows.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	TouchLastActive(ctx context.Context, id string) error
}

// SessionRepository defines the data access contract for session rows.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

// userColumns is the full select list shared by the user lookup queries.
const userColumns = `id, email, name, password_hash, age, city, bio, picture,
	identity_badge, interests, streak, connections_count, credits,
	referral_code, referrals_count, weekly_growth, emotional_path_progress,
	subscription_tier, is_guest, is_online, created_at, last_active`

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row. A duplicate email surfaces as
// apperror.Conflict -- the unique index on email is the source of truth for
// the "email is globally unique" invariant, not the pre-check in the service.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	interests, err := json.Marshal(user.Interests)
	if err != nil {
		return fmt.Errorf("encoding interests: %w", err)
	}

	query := `INSERT INTO users (id, email, name, password_hash, age, city, bio,
	            picture, identity_badge, interests, streak, connections_count,
	            credits, referral_code, referrals_count, weekly_growth,
	            emotional_path_progress, subscription_tier, is_guest, is_online,
	            created_at, last_active)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		nullIfEmpty(user.PasswordHash),
		user.Age,
		user.City,
		user.Bio,
		user.Picture,
		user.IdentityBadge,
		string(interests),
		user.Streak,
		user.ConnectionsCount,
		user.Credits,
		user.ReferralCode,
		user.ReferralsCount,
		user.WeeklyGrowth,
		user.EmotionalPathProgress,
		user.SubscriptionTier,
		user.IsGuest,
		user.IsOnline,
		user.CreatedAt,
		user.LastActive,
	)
	if database.IsDuplicateEntry(err) {
		return apperror.NewConflict("an account with this email already exists")
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by their UUID.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by their email address.
// Returns apperror.NotFound if no user exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return user, nil
}

// EmailExists returns true if a user with the given email already exists.
// Used during signup to check for duplicates before hashing the password.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}

	return exists, nil
}

// TouchLastActive sets last_active to now for the given user.
func (r *userRepository) TouchLastActive(ctx context.Context, id string) error {
	query := `UPDATE users SET last_active = NOW() WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("updating last_active: %w", err)
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser scans a row selected with userColumns into a User, decoding the
// JSON interests column and normalizing a NULL password hash (federated
// accounts) to the empty string.
func scanUser(row rowScanner) (*User, error) {
	var (
		user         User
		passwordHash sql.NullString
		interests    sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&passwordHash,
		&user.Age,
		&user.City,
		&user.Bio,
		&user.Picture,
		&user.IdentityBadge,
		&interests,
		&user.Streak,
		&user.ConnectionsCount,
		&user.Credits,
		&user.ReferralCode,
		&user.ReferralsCount,
		&user.WeeklyGrowth,
		&user.EmotionalPathProgress,
		&user.SubscriptionTier,
		&user.IsGuest,
		&user.IsOnline,
		&user.CreatedAt,
		&user.LastActive,
	)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash.String
	user.Interests = []string{}
	if interests.Valid && interests.String != "" {
		if err := json.Unmarshal([]byte(interests.String), &user.Interests); err != nil {
			return nil, fmt.Errorf("decoding interests: %w", err)
		}
	}

	return &user, nil
}

// nullIfEmpty maps "" to NULL so federated accounts store no password hash.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// --- Sessions ---

// sessionRepository implements SessionRepository against the user_sessions
// table. Expiry is enforced lazily at lookup time by the service; rows for
// expired sessions are deleted opportunistically when encountered.
type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a session repository backed by the given pool.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session row.
func (r *sessionRepository) Create(ctx context.Context, session *Session) error {
	query := `INSERT INTO user_sessions (token, user_id, created_at, expires_at)
	          VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		session.Token,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	return nil
}

// FindByToken retrieves a session by exact token match.
// Returns apperror.NotFound if no session row exists.
func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*Session, error) {
	query := `SELECT token, user_id, created_at, expires_at
	          FROM user_sessions WHERE token = ?`

	var (
		session   Session
		createdAt time.Time
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&createdAt,
		&expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	session.CreatedAt = createdAt
	session.ExpiresAt = expiresAt
	return &session, nil
}

// DeleteByToken removes a session row. Deleting a token that does not exist
// is not an error -- logout is idempotent.
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM user_sessions WHERE token = ?`

	_, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}
