package connections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/auth"
	"github.com/xelaconnect/backend/internal/plugins/users"
)

// requestScore is the compatibility score recorded on a fresh request. The
// discovery feed computes real scores; the stored one is informational.
const requestScore = 85

// discoverLimit caps the discovery feed size.
const discoverLimit = 10

// ConnectionService holds the connection request/accept rules and the
// discovery feed.
type ConnectionService struct {
	repo     ConnectionRepository
	profiles users.ProfileRepository
	logger   *slog.Logger
}

// NewConnectionService creates the connection service.
func NewConnectionService(repo ConnectionRepository, profiles users.ProfileRepository, logger *slog.Logger) *ConnectionService {
	return &ConnectionService{repo: repo, profiles: profiles, logger: logger}
}

// Request creates a pending connection from requesterID to targetID. A pair
// can hold at most one connection, whichever side asked first.
func (s *ConnectionService) Request(ctx context.Context, requesterID, targetID string) (*Connection, error) {
	if requesterID == targetID {
		return nil, apperror.NewBadRequest("you cannot connect with yourself")
	}

	if _, err := s.profiles.FindProfile(ctx, targetID); err != nil {
		return nil, err
	}

	conn := &Connection{
		ID:                 uuid.NewString(),
		RequesterID:        requesterID,
		TargetID:           targetID,
		CompatibilityScore: requestScore,
		Status:             StatusPending,
		CreatedAt:          time.Now(),
	}

	err := s.repo.Create(ctx, conn)
	if errors.Is(err, ErrConnectionExists) {
		return nil, apperror.NewConflict("a connection with this user already exists")
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating connection: %w", err))
	}

	s.logger.Info("connection requested", "connection_id", conn.ID, "requester_id", requesterID, "target_id", targetID)

	return conn, nil
}

// Accept marks the connection accepted. Only the target of the request may
// accept; a connection that already left pending stays as it is.
func (s *ConnectionService) Accept(ctx context.Context, userID, connectionID string) (*Connection, error) {
	conn, err := s.repo.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if conn.TargetID != userID {
		return nil, apperror.NewForbidden("only the requested user can accept this connection")
	}

	accepted, err := s.repo.Accept(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("connection accepted", "connection_id", connectionID, "user_id", userID)

	return accepted, nil
}

// List returns the user's accepted connections.
func (s *ConnectionService) List(ctx context.Context, userID string) ([]Connection, error) {
	conns, err := s.repo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing connections: %w", err))
	}

	return conns, nil
}

// Discover builds the recommendation feed for the user. Users who share
// interests score by the fraction of the caller's interests they cover;
// everyone else gets the base score. Scores cap at 95 so no match ever
// looks certain.
func (s *ConnectionService) Discover(ctx context.Context, user *auth.User) ([]Recommendation, error) {
	others, err := s.profiles.ListOthers(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing candidates: %w", err))
	}

	mine := make(map[string]bool, len(user.Interests))
	for _, interest := range user.Interests {
		mine[interest] = true
	}

	recs := []Recommendation{}
	for _, other := range others {
		common := []string{}
		for _, interest := range other.Interests {
			if mine[interest] {
				common = append(common, interest)
			}
		}

		score := 50
		if len(common) > 0 {
			base := len(user.Interests)
			if base < 1 {
				base = 1
			}
			score = len(common) * 100 / base
		}
		if score > 95 {
			score = 95
		}

		recs = append(recs, Recommendation{
			User:               other,
			CompatibilityScore: score,
			CommonInterests:    common,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CompatibilityScore > recs[j].CompatibilityScore
	})

	if len(recs) > discoverLimit {
		recs = recs[:discoverLimit]
	}

	return recs, nil
}
