package safety

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/users"
)

// SafetyService holds the moderation rules around blocking and reporting.
type SafetyService struct {
	repo     SafetyRepository
	profiles users.ProfileRepository
	logger   *slog.Logger
}

// NewSafetyService creates the safety service.
func NewSafetyService(repo SafetyRepository, profiles users.ProfileRepository, logger *slog.Logger) *SafetyService {
	return &SafetyService{repo: repo, profiles: profiles, logger: logger}
}

// Block records actorID blocking targetID and severs any existing
// connection between the pair. Blocking yourself is rejected.
func (s *SafetyService) Block(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperror.NewBadRequest("you cannot block yourself")
	}

	if _, err := s.profiles.FindProfile(ctx, targetID); err != nil {
		return err
	}

	if err := s.repo.AddBlock(ctx, actorID, targetID); err != nil {
		return apperror.NewInternal(fmt.Errorf("adding block: %w", err))
	}

	if err := s.repo.DeleteConnectionsBetween(ctx, actorID, targetID); err != nil {
		return apperror.NewInternal(fmt.Errorf("severing connection: %w", err))
	}

	s.logger.Info("user blocked", "blocker_id", actorID, "blocked_id", targetID)

	return nil
}

// Unblock removes the directional block. Unblocking someone who was never
// blocked succeeds quietly.
func (s *SafetyService) Unblock(ctx context.Context, actorID, targetID string) error {
	if err := s.repo.RemoveBlock(ctx, actorID, targetID); err != nil {
		return apperror.NewInternal(fmt.Errorf("removing block: %w", err))
	}

	return nil
}

// BlockedUsers returns the profiles of everyone the actor has blocked.
func (s *SafetyService) BlockedUsers(ctx context.Context, actorID string) ([]users.Profile, error) {
	ids, err := s.repo.ListBlockedIDs(ctx, actorID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing blocked users: %w", err))
	}
	if len(ids) == 0 {
		return []users.Profile{}, nil
	}

	return s.profiles.FindProfiles(ctx, ids)
}

// BlockStatusBetween reports both directions of the block relationship
// between the actor and another user. Messaging is allowed only when
// neither side has blocked the other.
func (s *SafetyService) BlockStatusBetween(ctx context.Context, actorID, otherID string) (*BlockStatus, error) {
	byMe, err := s.repo.IsBlocked(ctx, actorID, otherID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking block status: %w", err))
	}

	byThem, err := s.repo.IsBlocked(ctx, otherID, actorID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking block status: %w", err))
	}

	return &BlockStatus{
		IsBlockedByMe:   byMe,
		IsBlockedByThem: byThem,
		CanMessage:      !byMe && !byThem,
	}, nil
}

// Report files a report against another user. Reports land in pending
// status for later review.
func (s *SafetyService) Report(ctx context.Context, reporterID string, req *ReportRequest) (*Report, error) {
	if reporterID == req.UserID {
		return nil, apperror.NewBadRequest("you cannot report yourself")
	}

	if _, err := s.profiles.FindProfile(ctx, req.UserID); err != nil {
		return nil, err
	}

	report := &Report{
		ID:             uuid.NewString(),
		ReporterID:     reporterID,
		ReportedUserID: req.UserID,
		Reason:         req.Reason,
		Details:        req.Details,
		Status:         ReportStatusPending,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating report: %w", err))
	}

	s.logger.Info("report filed", "report_id", report.ID, "reporter_id", reporterID, "reported_user_id", req.UserID)

	return report, nil
}
