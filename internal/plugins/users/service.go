package users

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// creditsPerConversion is the reward granted per completed referral.
const creditsPerConversion = 50

// dailyMessages are the rotating encouragements shown on the dashboard.
var dailyMessages = []string{
	"You showed up — that's enough.",
	"Little interactions add up — you're building something real.",
	"Some days it's hard to connect. You're still doing great.",
	"Your presence matters more than you know.",
	"Even a 10-minute meaningful conversation lowers stress for 24 hours.",
}

// UserService defines the business logic contract for the user directory.
type UserService interface {
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*Profile, error)
	Dashboard(ctx context.Context, user *auth.User) (*DashboardStats, string, error)
	Referral(ctx context.Context, user *auth.User) (*ReferralSummary, error)
}

// userService implements UserService.
type userService struct {
	repo UserRepository
}

// NewUserService creates a user directory service.
func NewUserService(repo UserRepository) UserService {
	return &userService{repo: repo}
}

// UpdateProfile writes the allowed fields and returns the refreshed profile.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*Profile, error) {
	if err := s.repo.UpdateProfile(ctx, userID, req); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating profile: %w", err))
	}

	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("reloading profile: %w", err))
	}

	return profile, nil
}

// Dashboard assembles the caller's stats. circles_joined and courses counts
// are derived from their tables rather than stored counters, so they can
// never drift from the underlying sets.
func (s *userService) Dashboard(ctx context.Context, user *auth.User) (*DashboardStats, string, error) {
	circles, err := s.repo.CountCirclesJoined(ctx, user.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("counting circles: %w", err))
	}

	courses, err := s.repo.CountCoursesInProgress(ctx, user.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("counting courses: %w", err))
	}

	stats := &DashboardStats{
		Streak:                user.Streak,
		Connections:           user.ConnectionsCount,
		CirclesJoined:         circles,
		CoursesInProgress:     courses,
		EmotionalPathProgress: user.EmotionalPathProgress,
		WeeklyGrowth:          user.WeeklyGrowth,
	}

	message := dailyMessages[rand.Intn(len(dailyMessages))]
	return stats, message, nil
}

// Referral derives the caller's referral funnel from the referrals table.
func (s *userService) Referral(ctx context.Context, user *auth.User) (*ReferralSummary, error) {
	total, completed, err := s.repo.CountReferrals(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("counting referrals: %w", err))
	}

	return &ReferralSummary{
		ReferralCode:   user.ReferralCode,
		ReferralsCount: total,
		Conversions:    completed,
		Pending:        total - completed,
		CreditsEarned:  completed * creditsPerConversion,
	}, nil
}
