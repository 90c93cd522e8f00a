package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/users"
)

// StatusView is the response payload for a status lookup.
type StatusView struct {
	Status     string    `json:"status"`
	LastActive time.Time `json:"last_active"`
}

// PresenceService defines the business logic contract for presence.
type PresenceService interface {
	SetOnline(ctx context.Context, userID string, online bool) error
	Status(ctx context.Context, userID string) (*StatusView, error)
	OnlineUsers(ctx context.Context, callerID string) ([]users.Profile, error)
}

// presenceService implements PresenceService.
type presenceService struct {
	repo     PresenceRepository
	profiles users.ProfileRepository
}

// NewPresenceService creates a presence service.
func NewPresenceService(repo PresenceRepository, profiles users.ProfileRepository) PresenceService {
	return &presenceService{repo: repo, profiles: profiles}
}

// SetOnline toggles the caller's explicit presence flag and refreshes
// last_active.
func (s *presenceService) SetOnline(ctx context.Context, userID string, online bool) error {
	if err := s.repo.SetOnline(ctx, userID, online); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperror.NewInternal(fmt.Errorf("setting presence: %w", err))
	}
	return nil
}

// Status derives the user's presence classification from last_active.
func (s *presenceService) Status(ctx context.Context, userID string) (*StatusView, error) {
	profile, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading profile: %w", err))
	}

	return &StatusView{
		Status:     DeriveStatus(time.Now().UTC(), profile.LastActive),
		LastActive: profile.LastActive,
	}, nil
}

// OnlineUsers lists everyone except the caller active within the online
// window, as sanitized public profiles.
func (s *presenceService) OnlineUsers(ctx context.Context, callerID string) ([]users.Profile, error) {
	cutoff := time.Now().UTC().Add(-onlineWindow)

	profiles, err := s.profiles.ListActiveSince(ctx, callerID, cutoff)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing online users: %w", err))
	}

	return profiles, nil
}
