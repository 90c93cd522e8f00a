package activity

import (
	"context"
	"database/sql"
	"fmt"
)

// ActivityRepository defines the data access contract for the feed.
type ActivityRepository interface {
	// ListForUser returns the user's activities, newest first.
	ListForUser(ctx context.Context, userID string) ([]Activity, error)

	// CreateBatch inserts the given activities.
	CreateBatch(ctx context.Context, activities []Activity) error

	// MarkRead flags the activity read if it belongs to userID. Marking an
	// already-read or foreign activity changes nothing.
	MarkRead(ctx context.Context, activityID, userID string) error
}

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates an activity repository backed by the pool.
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) ListForUser(ctx context.Context, userID string) ([]Activity, error) {
	query := `SELECT id, user_id, activity_type, priority, title, description,
	            action_text, action_link, read_flag, created_at
	          FROM activities WHERE user_id = ?
	          ORDER BY created_at DESC LIMIT 50`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	activities := []Activity{}
	for rows.Next() {
		var a Activity
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Type,
			&a.Priority,
			&a.Title,
			&a.Description,
			&a.ActionText,
			&a.ActionLink,
			&a.Read,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

func (r *activityRepository) CreateBatch(ctx context.Context, activities []Activity) error {
	if len(activities) == 0 {
		return nil
	}

	query := `INSERT INTO activities (id, user_id, activity_type, priority, title,
	            description, action_text, action_link, read_flag, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, a := range activities {
		_, err := r.db.ExecContext(ctx, query,
			a.ID, a.UserID, a.Type, a.Priority, a.Title,
			a.Description, a.ActionText, a.ActionLink, a.Read, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting activity: %w", err)
		}
	}

	return nil
}

func (r *activityRepository) MarkRead(ctx context.Context, activityID, userID string) error {
	query := `UPDATE activities SET read_flag = TRUE WHERE id = ? AND user_id = ?`

	_, err := r.db.ExecContext(ctx, query, activityID, userID)
	if err != nil {
		return fmt.Errorf("marking activity read: %w", err)
	}

	return nil
}
