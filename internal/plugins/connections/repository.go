package connections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/database"
)

// ErrConnectionExists is returned by Create when a connection for the pair
// already exists, whatever its status.
var ErrConnectionExists = errors.New("connection already exists")

// ConnectionRepository defines the data access contract for connections.
type ConnectionRepository interface {
	// Create inserts a pending connection. Returns ErrConnectionExists if
	// the pair already has one.
	Create(ctx context.Context, conn *Connection) error

	// FindByID returns the connection or apperror.NotFound.
	FindByID(ctx context.Context, id string) (*Connection, error)

	// Accept moves the connection to accepted and bumps both users'
	// connection counters in one transaction. Returns apperror.NotFound if
	// the row is missing and apperror.Conflict if it is no longer pending.
	Accept(ctx context.Context, id string) (*Connection, error)

	// ListAccepted returns the user's accepted connections, either side.
	ListAccepted(ctx context.Context, userID string) ([]Connection, error)
}

type connectionRepository struct {
	db *sql.DB
}

// NewConnectionRepository creates a connection repository backed by the pool.
func NewConnectionRepository(db *sql.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

const connectionColumns = `id, requester_id, target_id, compatibility_score,
	status, created_at, accepted_at`

func (r *connectionRepository) Create(ctx context.Context, conn *Connection) error {
	query := `INSERT INTO connections (id, requester_id, target_id, pair_key,
	            compatibility_score, status, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		conn.ID,
		conn.RequesterID,
		conn.TargetID,
		pairKey(conn.RequesterID, conn.TargetID),
		conn.CompatibilityScore,
		conn.Status,
		conn.CreatedAt,
	)
	if database.IsDuplicateEntry(err) {
		return ErrConnectionExists
	}
	if err != nil {
		return fmt.Errorf("inserting connection: %w", err)
	}

	return nil
}

func (r *connectionRepository) FindByID(ctx context.Context, id string) (*Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = ?`

	conn, err := scanConnection(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("connection not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying connection: %w", err)
	}

	return conn, nil
}

// Accept flips the row to accepted and increments both counters. The
// UPDATE is guarded on status = pending so a second accept changes nothing
// and the counter increments run at most once.
func (r *connectionRepository) Accept(ctx context.Context, id string) (*Connection, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE connections SET status = ?, accepted_at = NOW()
		 WHERE id = ? AND status = ?`,
		StatusAccepted, id, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("updating connection: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM connections WHERE id = ?`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("connection not found")
		}
		if err != nil {
			return nil, fmt.Errorf("querying connection status: %w", err)
		}
		return nil, apperror.NewConflict("connection is already " + status)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET connections_count = connections_count + 1
		 WHERE id IN (SELECT requester_id FROM connections WHERE id = ?)
		    OR id IN (SELECT target_id FROM connections WHERE id = ?)`,
		id, id)
	if err != nil {
		return nil, fmt.Errorf("incrementing connection counts: %w", err)
	}

	conn, err := scanConnection(tx.QueryRowContext(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("reloading connection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing accept: %w", err)
	}

	return conn, nil
}

func (r *connectionRepository) ListAccepted(ctx context.Context, userID string) ([]Connection, error) {
	query := `SELECT ` + connectionColumns + `
	          FROM connections
	          WHERE status = ? AND (requester_id = ? OR target_id = ?)
	          ORDER BY accepted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, StatusAccepted, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying connections: %w", err)
	}
	defer rows.Close()

	conns := []Connection{}
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning connection: %w", err)
		}
		conns = append(conns, *conn)
	}

	return conns, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*Connection, error) {
	var (
		conn       Connection
		acceptedAt sql.NullTime
	)

	err := row.Scan(
		&conn.ID,
		&conn.RequesterID,
		&conn.TargetID,
		&conn.CompatibilityScore,
		&conn.Status,
		&conn.CreatedAt,
		&acceptedAt,
	)
	if err != nil {
		return nil, err
	}

	if acceptedAt.Valid {
		conn.AcceptedAt = &acceptedAt.Time
	}

	return &conn, nil
}
