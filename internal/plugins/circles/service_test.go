package circles

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/xelaconnect/backend/internal/apperror"
)

// mockCircleRepo backs the service with in-memory circles and memberships.
type mockCircleRepo struct {
	circles map[string]*Circle
	members map[string]map[string]bool // circleID -> userID set
}

func newMockCircleRepo(circles ...*Circle) *mockCircleRepo {
	repo := &mockCircleRepo{
		circles: make(map[string]*Circle),
		members: make(map[string]map[string]bool),
	}
	for _, c := range circles {
		repo.circles[c.ID] = c
		repo.members[c.ID] = make(map[string]bool)
	}
	return repo
}

func (m *mockCircleRepo) List(ctx context.Context, category string) ([]Circle, error) {
	var out []Circle
	for _, c := range m.circles {
		if !c.Active {
			continue
		}
		if category != "" && category != "All" && c.Category != category {
			continue
		}
		view := *c
		view.MemberCount = len(m.members[c.ID])
		out = append(out, view)
	}
	return out, nil
}

func (m *mockCircleRepo) FindByID(ctx context.Context, id string) (*Circle, error) {
	c, ok := m.circles[id]
	if !ok {
		return nil, apperror.NewNotFound("circle not found")
	}
	view := *c
	view.MemberCount = len(m.members[id])
	return &view, nil
}

func (m *mockCircleRepo) IsMember(ctx context.Context, circleID, userID string) (bool, error) {
	return m.members[circleID][userID], nil
}

func (m *mockCircleRepo) AddMember(ctx context.Context, circleID, userID string) error {
	m.members[circleID][userID] = true
	return nil
}

func (m *mockCircleRepo) RemoveMember(ctx context.Context, circleID, userID string) error {
	delete(m.members[circleID], userID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestList_CategoryFilter(t *testing.T) {
	repo := newMockCircleRepo(
		&Circle{ID: "c1", Category: "Grief", Active: true},
		&Circle{ID: "c2", Category: "Anxiety", Active: true},
		&Circle{ID: "c3", Category: "Grief", Active: false},
	)
	svc := NewCircleService(repo, testLogger())

	grief, err := svc.List(context.Background(), "Grief")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grief) != 1 || grief[0].ID != "c1" {
		t.Errorf("expected only the active Grief circle, got %+v", grief)
	}

	all, err := svc.List(context.Background(), "All")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("\"All\" must not filter: got %d circles", len(all))
	}
}

func TestJoin_RefreshesMemberCount(t *testing.T) {
	repo := newMockCircleRepo(&Circle{ID: "c1", Active: true})
	svc := NewCircleService(repo, testLogger())

	circle, err := svc.Join(context.Background(), "c1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if circle.MemberCount != 1 {
		t.Errorf("expected member count 1 after joining, got %d", circle.MemberCount)
	}
}

func TestJoin_Idempotent(t *testing.T) {
	repo := newMockCircleRepo(&Circle{ID: "c1", Active: true})
	svc := NewCircleService(repo, testLogger())

	if _, err := svc.Join(context.Background(), "c1", "user-1"); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	circle, err := svc.Join(context.Background(), "c1", "user-1")
	if err != nil {
		t.Fatalf("second join must succeed quietly: %v", err)
	}
	if circle.MemberCount != 1 {
		t.Errorf("double join must not double-count: got %d", circle.MemberCount)
	}
}

func TestJoin_UnknownCircle(t *testing.T) {
	svc := NewCircleService(newMockCircleRepo(), testLogger())

	_, err := svc.Join(context.Background(), "ghost", "user-1")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestLeave_Idempotent(t *testing.T) {
	repo := newMockCircleRepo(&Circle{ID: "c1", Active: true})
	svc := NewCircleService(repo, testLogger())

	if err := svc.Leave(context.Background(), "c1", "user-1"); err != nil {
		t.Errorf("leaving a circle you are not in must succeed: %v", err)
	}
}

func TestDetail_MembershipFlag(t *testing.T) {
	repo := newMockCircleRepo(&Circle{ID: "c1", Active: true})
	repo.members["c1"]["user-1"] = true
	svc := NewCircleService(repo, testLogger())

	detail, err := svc.Detail(context.Background(), "c1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.IsMember {
		t.Error("expected IsMember for a joined user")
	}

	detail, err = svc.Detail(context.Background(), "c1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.IsMember {
		t.Error("expected IsMember false for a stranger")
	}
}
