package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	updateProfileFn      func(ctx context.Context, id string, req *UpdateProfileRequest) error
	findProfileFn        func(ctx context.Context, id string) (*Profile, error)
	countCirclesJoinedFn func(ctx context.Context, userID string) (int, error)
	countCoursesInProgFn func(ctx context.Context, userID string) (int, error)
	countReferralsFn     func(ctx context.Context, userID string) (int, int, error)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, req)
	}
	return nil
}

func (m *mockUserRepo) FindProfile(ctx context.Context, id string) (*Profile, error) {
	if m.findProfileFn != nil {
		return m.findProfileFn(ctx, id)
	}
	return &Profile{ID: id}, nil
}

func (m *mockUserRepo) FindProfiles(ctx context.Context, ids []string) ([]Profile, error) {
	return nil, nil
}

func (m *mockUserRepo) ListActiveSince(ctx context.Context, excludeID string, since time.Time) ([]Profile, error) {
	return nil, nil
}

func (m *mockUserRepo) ListOthers(ctx context.Context, excludeID string) ([]Profile, error) {
	return nil, nil
}

func (m *mockUserRepo) CountCirclesJoined(ctx context.Context, userID string) (int, error) {
	if m.countCirclesJoinedFn != nil {
		return m.countCirclesJoinedFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockUserRepo) CountCoursesInProgress(ctx context.Context, userID string) (int, error) {
	if m.countCoursesInProgFn != nil {
		return m.countCoursesInProgFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockUserRepo) CountReferrals(ctx context.Context, userID string) (int, int, error) {
	if m.countReferralsFn != nil {
		return m.countReferralsFn(ctx, userID)
	}
	return 0, 0, nil
}

// --- Tests ---

func TestUpdateProfile_ReturnsRefreshedProfile(t *testing.T) {
	var gotReq *UpdateProfileRequest
	repo := &mockUserRepo{
		updateProfileFn: func(ctx context.Context, id string, req *UpdateProfileRequest) error {
			gotReq = req
			return nil
		},
		findProfileFn: func(ctx context.Context, id string) (*Profile, error) {
			name := "Updated"
			return &Profile{ID: id, Name: name}, nil
		},
	}
	svc := NewUserService(repo)

	name := "Updated"
	profile, err := svc.UpdateProfile(context.Background(), "user-1", &UpdateProfileRequest{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReq == nil || gotReq.Name == nil || *gotReq.Name != "Updated" {
		t.Error("the request must be handed to the repository unchanged")
	}
	if profile.Name != "Updated" {
		t.Errorf("expected the refreshed profile, got %+v", profile)
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		updateProfileFn: func(ctx context.Context, id string, req *UpdateProfileRequest) error {
			return apperror.NewNotFound("user not found")
		},
	}
	svc := NewUserService(repo)

	_, err := svc.UpdateProfile(context.Background(), "ghost", &UpdateProfileRequest{})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestDashboard_DerivedCounts(t *testing.T) {
	repo := &mockUserRepo{
		countCirclesJoinedFn: func(ctx context.Context, userID string) (int, error) {
			return 3, nil
		},
		countCoursesInProgFn: func(ctx context.Context, userID string) (int, error) {
			return 2, nil
		},
	}
	svc := NewUserService(repo)

	user := &auth.User{ID: "user-1", Streak: 7, ConnectionsCount: 12, WeeklyGrowth: 4}
	stats, message, err := svc.Dashboard(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CirclesJoined != 3 || stats.CoursesInProgress != 2 {
		t.Errorf("derived counts wrong: %+v", stats)
	}
	if stats.Streak != 7 || stats.Connections != 12 {
		t.Errorf("stored counters wrong: %+v", stats)
	}
	if message == "" {
		t.Error("expected a daily message")
	}
}

func TestReferral_CreditsPerConversion(t *testing.T) {
	repo := &mockUserRepo{
		countReferralsFn: func(ctx context.Context, userID string) (int, int, error) {
			return 5, 3, nil
		},
	}
	svc := NewUserService(repo)

	summary, err := svc.Referral(context.Background(), &auth.User{ID: "user-1", ReferralCode: "XC1A2B3C4D"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ReferralsCount != 5 || summary.Conversions != 3 || summary.Pending != 2 {
		t.Errorf("funnel wrong: %+v", summary)
	}
	if summary.CreditsEarned != 150 {
		t.Errorf("expected 150 credits (50 per conversion), got %d", summary.CreditsEarned)
	}
	if summary.ReferralCode != "XC1A2B3C4D" {
		t.Errorf("unexpected referral code %q", summary.ReferralCode)
	}
}
