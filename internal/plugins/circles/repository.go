package circles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/database"
)

// CircleRepository defines the data access contract for circles and their
// memberships.
type CircleRepository interface {
	// List returns active circles, optionally filtered by category.
	// Member counts are computed from the membership table.
	List(ctx context.Context, category string) ([]Circle, error)

	// FindByID returns the circle or apperror.NotFound.
	FindByID(ctx context.Context, id string) (*Circle, error)

	// IsMember reports whether userID belongs to the circle.
	IsMember(ctx context.Context, circleID, userID string) (bool, error)

	// AddMember joins a user to the circle. Joining twice is a no-op.
	AddMember(ctx context.Context, circleID, userID string) error

	// RemoveMember leaves the circle. Idempotent.
	RemoveMember(ctx context.Context, circleID, userID string) error
}

type circleRepository struct {
	db *sql.DB
}

// NewCircleRepository creates a circle repository backed by the pool.
func NewCircleRepository(db *sql.DB) CircleRepository {
	return &circleRepository{db: db}
}

const circleColumns = `c.id, c.name, c.emoji, c.category, c.description,
	c.image, c.gradient, c.tags, c.active, c.created_by, c.created_at,
	(SELECT COUNT(*) FROM circle_members m WHERE m.circle_id = c.id)`

func (r *circleRepository) List(ctx context.Context, category string) ([]Circle, error) {
	query := `SELECT ` + circleColumns + ` FROM circles c WHERE c.active = TRUE`
	args := []any{}

	if category != "" && category != "All" {
		query += ` AND c.category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY c.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying circles: %w", err)
	}
	defer rows.Close()

	circles := []Circle{}
	for rows.Next() {
		circle, err := scanCircle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning circle: %w", err)
		}
		circles = append(circles, *circle)
	}

	return circles, rows.Err()
}

func (r *circleRepository) FindByID(ctx context.Context, id string) (*Circle, error) {
	query := `SELECT ` + circleColumns + ` FROM circles c WHERE c.id = ?`

	circle, err := scanCircle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("circle not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying circle: %w", err)
	}

	return circle, nil
}

func (r *circleRepository) IsMember(ctx context.Context, circleID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM circle_members WHERE circle_id = ? AND user_id = ?)`

	var member bool
	if err := r.db.QueryRowContext(ctx, query, circleID, userID).Scan(&member); err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}

	return member, nil
}

// AddMember inserts the membership row. The composite primary key turns a
// repeat join into a duplicate-entry error, which is swallowed.
func (r *circleRepository) AddMember(ctx context.Context, circleID, userID string) error {
	query := `INSERT INTO circle_members (circle_id, user_id, joined_at) VALUES (?, ?, NOW())`

	_, err := r.db.ExecContext(ctx, query, circleID, userID)
	if database.IsDuplicateEntry(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inserting membership: %w", err)
	}

	return nil
}

func (r *circleRepository) RemoveMember(ctx context.Context, circleID, userID string) error {
	query := `DELETE FROM circle_members WHERE circle_id = ? AND user_id = ?`

	_, err := r.db.ExecContext(ctx, query, circleID, userID)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCircle(row rowScanner) (*Circle, error) {
	var (
		circle  Circle
		rawTags sql.NullString
	)

	err := row.Scan(
		&circle.ID,
		&circle.Name,
		&circle.Emoji,
		&circle.Category,
		&circle.Description,
		&circle.Image,
		&circle.Gradient,
		&rawTags,
		&circle.Active,
		&circle.CreatedBy,
		&circle.CreatedAt,
		&circle.MemberCount,
	)
	if err != nil {
		return nil, err
	}

	circle.Tags = []string{}
	if rawTags.Valid && rawTags.String != "" {
		if err := json.Unmarshal([]byte(rawTags.String), &circle.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
	}

	return &circle, nil
}
