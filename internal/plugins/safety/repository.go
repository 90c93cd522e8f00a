package safety

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xelaconnect/backend/internal/database"
)

// SafetyRepository defines the data access contract for block relationships
// and reports.
type SafetyRepository interface {
	// AddBlock records actor blocking target. Adding an existing block is a
	// no-op, not an error.
	AddBlock(ctx context.Context, actorID, targetID string) error

	// RemoveBlock deletes the directional block. Idempotent.
	RemoveBlock(ctx context.Context, actorID, targetID string) error

	// IsBlocked reports whether actorID has blocked targetID (one direction).
	IsBlocked(ctx context.Context, actorID, targetID string) (bool, error)

	// ListBlockedIDs returns the ids the actor has blocked.
	ListBlockedIDs(ctx context.Context, actorID string) ([]string, error)

	// DeleteConnectionsBetween removes any connection record between the
	// pair, in either direction.
	DeleteConnectionsBetween(ctx context.Context, a, b string) error

	// CreateReport persists a report row.
	CreateReport(ctx context.Context, report *Report) error
}

// safetyRepository implements SafetyRepository with hand-written queries.
type safetyRepository struct {
	db *sql.DB
}

// NewSafetyRepository creates a safety repository backed by the pool.
func NewSafetyRepository(db *sql.DB) SafetyRepository {
	return &safetyRepository{db: db}
}

// AddBlock inserts the directional block row. The composite primary key
// makes a repeat block a duplicate-entry error, which is swallowed: blocking
// twice is the same as blocking once.
func (r *safetyRepository) AddBlock(ctx context.Context, actorID, targetID string) error {
	query := `INSERT INTO blocked_users (blocker_id, blocked_id, created_at)
	          VALUES (?, ?, NOW())`

	_, err := r.db.ExecContext(ctx, query, actorID, targetID)
	if database.IsDuplicateEntry(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inserting block: %w", err)
	}

	return nil
}

// RemoveBlock deletes the directional block row.
func (r *safetyRepository) RemoveBlock(ctx context.Context, actorID, targetID string) error {
	query := `DELETE FROM blocked_users WHERE blocker_id = ? AND blocked_id = ?`

	_, err := r.db.ExecContext(ctx, query, actorID, targetID)
	if err != nil {
		return fmt.Errorf("deleting block: %w", err)
	}

	return nil
}

// IsBlocked checks one direction of the relationship.
func (r *safetyRepository) IsBlocked(ctx context.Context, actorID, targetID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM blocked_users WHERE blocker_id = ? AND blocked_id = ?)`

	var blocked bool
	if err := r.db.QueryRowContext(ctx, query, actorID, targetID).Scan(&blocked); err != nil {
		return false, fmt.Errorf("checking block: %w", err)
	}

	return blocked, nil
}

// ListBlockedIDs returns every id the actor has blocked.
func (r *safetyRepository) ListBlockedIDs(ctx context.Context, actorID string) ([]string, error) {
	query := `SELECT blocked_id FROM blocked_users WHERE blocker_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing blocked ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning blocked id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DeleteConnectionsBetween removes the pair's connection record regardless
// of which side initiated it.
func (r *safetyRepository) DeleteConnectionsBetween(ctx context.Context, a, b string) error {
	query := `DELETE FROM connections
	          WHERE (requester_id = ? AND target_id = ?)
	             OR (requester_id = ? AND target_id = ?)`

	_, err := r.db.ExecContext(ctx, query, a, b, b, a)
	if err != nil {
		return fmt.Errorf("deleting connections: %w", err)
	}

	return nil
}

// CreateReport persists a report row.
func (r *safetyRepository) CreateReport(ctx context.Context, report *Report) error {
	query := `INSERT INTO user_reports (id, reporter_id, reported_user_id, reason,
	            details, status, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.ReporterID,
		report.ReportedUserID,
		report.Reason,
		report.Details,
		report.Status,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}

	return nil
}
