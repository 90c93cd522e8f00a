package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xelaconnect/backend/internal/apperror"
)

// ActivityService exposes the activity feed.
type ActivityService struct {
	repo ActivityRepository
}

// NewActivityService creates the activity service.
func NewActivityService(repo ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Feed returns the user's activities, newest first. A first-time visitor
// with an empty feed gets two starter entries seeded on the spot.
func (s *ActivityService) Feed(ctx context.Context, userID string) ([]Activity, error) {
	activities, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing activities: %w", err))
	}

	if len(activities) > 0 {
		return activities, nil
	}

	starters := starterActivities(userID)
	if err := s.repo.CreateBatch(ctx, starters); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("seeding activities: %w", err))
	}

	return starters, nil
}

// MarkRead flags the activity read. The update is scoped to the owner, so
// a foreign id quietly changes nothing, and repeats are harmless.
func (s *ActivityService) MarkRead(ctx context.Context, activityID, userID string) error {
	if err := s.repo.MarkRead(ctx, activityID, userID); err != nil {
		return apperror.NewInternal(fmt.Errorf("marking activity read: %w", err))
	}

	return nil
}

func starterActivities(userID string) []Activity {
	now := time.Now().UTC()

	return []Activity{
		{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        TypeOpportunity,
			Priority:    PriorityHigh,
			Title:       "New Circle Match",
			Description: "Morning Meditation group is highly aligned with your wellness goals",
			ActionText:  "Join Circle",
			ActionLink:  "/community",
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        TypeInsight,
			Priority:    PriorityMedium,
			Title:       "Weekly Growth Insight",
			Description: "Your emotional intelligence score increased by 12%",
			ActionText:  "See Details",
			ActionLink:  "/profile",
			CreatedAt:   now,
		},
	}
}
