package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xelaconnect/backend/internal/apperror"
)

// ProfileRepository is the read-side contract for public profile data.
// Messaging, presence, safety, and discovery all enrich their responses
// through this interface, so credential stripping happens in exactly one
// place: the select list below, which never includes password_hash.
type ProfileRepository interface {
	FindProfile(ctx context.Context, id string) (*Profile, error)
	FindProfiles(ctx context.Context, ids []string) ([]Profile, error)

	// ListActiveSince returns all profiles except excludeID whose
	// last_active is at or after the cutoff. Used for the online listing.
	ListActiveSince(ctx context.Context, excludeID string, since time.Time) ([]Profile, error)

	// ListOthers returns all non-guest profiles except excludeID.
	// Used by interest-based discovery.
	ListOthers(ctx context.Context, excludeID string) ([]Profile, error)
}

// UserRepository is the write-side contract for the user directory.
type UserRepository interface {
	ProfileRepository
	UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) error
	CountCirclesJoined(ctx context.Context, userID string) (int, error)
	CountCoursesInProgress(ctx context.Context, userID string) (int, error)
	CountReferrals(ctx context.Context, userID string) (total, completed int, err error)
}

// profileColumns is the select list for public profile reads. password_hash
// is deliberately absent.
const profileColumns = `id, name, email, age, city, bio, picture, identity_badge,
	interests, streak, connections_count, is_online, last_active, created_at`

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a user directory repository backed by the pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// FindProfile retrieves one public profile.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindProfile(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = ?`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	return profile, nil
}

// FindProfiles retrieves the public profiles for a set of ids. Unknown ids
// are silently skipped; order is unspecified.
func (r *userRepository) FindProfiles(ctx context.Context, ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return []Profile{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `SELECT ` + profileColumns + ` FROM users WHERE id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// ListActiveSince returns everyone else active at or after the cutoff.
func (r *userRepository) ListActiveSince(ctx context.Context, excludeID string, since time.Time) ([]Profile, error) {
	query := `SELECT ` + profileColumns + `
	          FROM users WHERE id != ? AND last_active >= ?
	          ORDER BY last_active DESC LIMIT 100`

	rows, err := r.db.QueryContext(ctx, query, excludeID, since)
	if err != nil {
		return nil, fmt.Errorf("querying active users: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// ListOthers returns all non-guest profiles except excludeID.
func (r *userRepository) ListOthers(ctx context.Context, excludeID string) ([]Profile, error) {
	query := `SELECT ` + profileColumns + `
	          FROM users WHERE id != ? AND is_guest = FALSE LIMIT 100`

	rows, err := r.db.QueryContext(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// UpdateProfile writes the provided fields only. A request with no fields
// set is a no-op.
func (r *userRepository) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) error {
	var (
		sets []string
		args []any
	)

	appendSet := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if req.Name != nil {
		appendSet("name", strings.TrimSpace(*req.Name))
	}
	if req.Bio != nil {
		appendSet("bio", *req.Bio)
	}
	if req.Interests != nil {
		encoded, err := json.Marshal(*req.Interests)
		if err != nil {
			return fmt.Errorf("encoding interests: %w", err)
		}
		appendSet("interests", string(encoded))
	}
	if req.IdentityBadge != nil {
		appendSet("identity_badge", *req.IdentityBadge)
	}
	if req.Age != nil {
		appendSet("age", *req.Age)
	}
	if req.City != nil {
		appendSet("city", *req.City)
	}
	if req.Picture != nil {
		appendSet("picture", *req.Picture)
	}

	if len(sets) == 0 {
		return nil
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		// RowsAffected is also 0 when the values did not change, so confirm
		// the user actually exists before reporting not found.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("checking user existence: %w", err)
		}
		if !exists {
			return apperror.NewNotFound("user not found")
		}
	}

	return nil
}

// CountCirclesJoined derives the caller's joined-circle count from the
// membership table.
func (r *userRepository) CountCirclesJoined(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM circle_members WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting joined circles: %w", err)
	}
	return count, nil
}

// CountCoursesInProgress counts the caller's course progress records.
func (r *userRepository) CountCoursesInProgress(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM course_progress WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting course progress: %w", err)
	}
	return count, nil
}

// CountReferrals returns the caller's total and completed referral counts.
func (r *userRepository) CountReferrals(ctx context.Context, userID string) (int, int, error) {
	var total, completed int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(status = 'completed'), 0)
		 FROM referrals WHERE referrer_user_id = ?`, userID).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("counting referrals: %w", err)
	}
	return total, completed, nil
}

// --- Scan helpers ---

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProfile scans a row selected with profileColumns, decoding interests.
func scanProfile(row rowScanner) (*Profile, error) {
	var (
		p         Profile
		interests sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Age,
		&p.City,
		&p.Bio,
		&p.Picture,
		&p.IdentityBadge,
		&interests,
		&p.Streak,
		&p.ConnectionsCount,
		&p.IsOnline,
		&p.LastActive,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Interests = []string{}
	if interests.Valid && interests.String != "" {
		if err := json.Unmarshal([]byte(interests.String), &p.Interests); err != nil {
			return nil, fmt.Errorf("decoding interests: %w", err)
		}
	}

	return &p, nil
}

// collectProfiles drains a result set of profileColumns rows.
func collectProfiles(rows *sql.Rows) ([]Profile, error) {
	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile row: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
