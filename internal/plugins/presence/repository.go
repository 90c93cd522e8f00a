package presence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xelaconnect/backend/internal/apperror"
)

// PresenceRepository defines the write-side contract for presence state.
// Status reads go through users.ProfileRepository instead; the only state
// this package owns is the last_active/is_online pair on the user row.
type PresenceRepository interface {
	SetOnline(ctx context.Context, userID string, online bool) error
}

// presenceRepository implements PresenceRepository.
type presenceRepository struct {
	db *sql.DB
}

// NewPresenceRepository creates a presence repository backed by the pool.
func NewPresenceRepository(db *sql.DB) PresenceRepository {
	return &presenceRepository{db: db}
}

// SetOnline stamps last_active with now and records the explicit flag. Both
// the online and offline toggles refresh last_active -- going offline is
// itself activity.
func (r *presenceRepository) SetOnline(ctx context.Context, userID string, online bool) error {
	query := `UPDATE users SET last_active = NOW(), is_online = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, online, userID)
	if err != nil {
		return fmt.Errorf("updating presence: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFound("user not found")
	}

	return nil
}
