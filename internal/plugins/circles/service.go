package circles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xelaconnect/backend/internal/apperror"
)

// CircleService holds the circle browsing and membership rules.
type CircleService struct {
	repo   CircleRepository
	logger *slog.Logger
}

// NewCircleService creates the circle service.
func NewCircleService(repo CircleRepository, logger *slog.Logger) *CircleService {
	return &CircleService{repo: repo, logger: logger}
}

// List returns active circles, optionally filtered by category. The
// pseudo-category "All" means no filter.
func (s *CircleService) List(ctx context.Context, category string) ([]Circle, error) {
	circles, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing circles: %w", err))
	}

	return circles, nil
}

// Detail returns the circle with the caller's membership flag.
func (s *CircleService) Detail(ctx context.Context, circleID, userID string) (*CircleDetail, error) {
	circle, err := s.repo.FindByID(ctx, circleID)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.IsMember(ctx, circleID, userID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking membership: %w", err))
	}

	return &CircleDetail{Circle: circle, IsMember: member}, nil
}

// Join adds the user to the circle and returns the refreshed circle.
// Joining a circle you already belong to succeeds quietly.
func (s *CircleService) Join(ctx context.Context, circleID, userID string) (*Circle, error) {
	if _, err := s.repo.FindByID(ctx, circleID); err != nil {
		return nil, err
	}

	if err := s.repo.AddMember(ctx, circleID, userID); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("joining circle: %w", err))
	}

	s.logger.Info("circle joined", "circle_id", circleID, "user_id", userID)

	return s.repo.FindByID(ctx, circleID)
}

// Leave removes the user from the circle. Leaving a circle you are not in
// succeeds quietly.
func (s *CircleService) Leave(ctx context.Context, circleID, userID string) error {
	if err := s.repo.RemoveMember(ctx, circleID, userID); err != nil {
		return apperror.NewInternal(fmt.Errorf("leaving circle: %w", err))
	}

	s.logger.Info("circle left", "circle_id", circleID, "user_id", userID)

	return nil
}
