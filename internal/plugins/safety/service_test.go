package safety

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/plugins/users"
)

// --- Mock Repositories ---

// mockSafetyRepo implements SafetyRepository over in-memory state.
type mockSafetyRepo struct {
	blocks          map[string]bool
	severedPairs    [][2]string
	reports         []*Report
	createReportErr error
}

func newMockSafetyRepo() *mockSafetyRepo {
	return &mockSafetyRepo{blocks: map[string]bool{}}
}

func blockKey(actorID, targetID string) string { return actorID + "->" + targetID }

func (m *mockSafetyRepo) AddBlock(ctx context.Context, actorID, targetID string) error {
	m.blocks[blockKey(actorID, targetID)] = true
	return nil
}

func (m *mockSafetyRepo) RemoveBlock(ctx context.Context, actorID, targetID string) error {
	delete(m.blocks, blockKey(actorID, targetID))
	return nil
}

func (m *mockSafetyRepo) IsBlocked(ctx context.Context, actorID, targetID string) (bool, error) {
	return m.blocks[blockKey(actorID, targetID)], nil
}

func (m *mockSafetyRepo) ListBlockedIDs(ctx context.Context, actorID string) ([]string, error) {
	ids := []string{}
	for key := range m.blocks {
		if len(key) > len(actorID) && key[:len(actorID)] == actorID {
			ids = append(ids, key[len(actorID)+2:])
		}
	}
	return ids, nil
}

func (m *mockSafetyRepo) DeleteConnectionsBetween(ctx context.Context, a, b string) error {
	m.severedPairs = append(m.severedPairs, [2]string{a, b})
	return nil
}

func (m *mockSafetyRepo) CreateReport(ctx context.Context, report *Report) error {
	if m.createReportErr != nil {
		return m.createReportErr
	}
	m.reports = append(m.reports, report)
	return nil
}

// mockProfileRepo implements users.ProfileRepository; every id resolves
// unless listed in missing.
type mockProfileRepo struct {
	missing map[string]bool
}

func (m *mockProfileRepo) FindProfile(ctx context.Context, id string) (*users.Profile, error) {
	if m.missing[id] {
		return nil, apperror.NewNotFound("user not found")
	}
	return &users.Profile{ID: id}, nil
}

func (m *mockProfileRepo) FindProfiles(ctx context.Context, ids []string) ([]users.Profile, error) {
	profiles := make([]users.Profile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, users.Profile{ID: id})
	}
	return profiles, nil
}

func (m *mockProfileRepo) ListActiveSince(ctx context.Context, excludeID string, since time.Time) ([]users.Profile, error) {
	return nil, nil
}

func (m *mockProfileRepo) ListOthers(ctx context.Context, excludeID string) ([]users.Profile, error) {
	return nil, nil
}

func newTestService(repo *mockSafetyRepo) *SafetyService {
	return NewSafetyService(repo, &mockProfileRepo{}, slog.Default())
}

func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- Block Tests ---

func TestBlock_SeversConnection(t *testing.T) {
	repo := newMockSafetyRepo()
	svc := newTestService(repo)

	if err := svc.Block(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !repo.blocks[blockKey("alice", "bob")] {
		t.Error("expected the block to be recorded")
	}
	if len(repo.severedPairs) != 1 {
		t.Fatalf("expected 1 severed pair, got %d", len(repo.severedPairs))
	}
	if repo.severedPairs[0] != [2]string{"alice", "bob"} {
		t.Errorf("unexpected severed pair %v", repo.severedPairs[0])
	}
}

func TestBlock_Self(t *testing.T) {
	svc := newTestService(newMockSafetyRepo())

	err := svc.Block(context.Background(), "alice", "alice")
	assertAppError(t, err, 400)
}

func TestBlock_UnknownTarget(t *testing.T) {
	repo := newMockSafetyRepo()
	svc := NewSafetyService(repo, &mockProfileRepo{missing: map[string]bool{"ghost": true}}, slog.Default())

	err := svc.Block(context.Background(), "alice", "ghost")
	assertAppError(t, err, 404)
	if len(repo.blocks) != 0 {
		t.Error("no block may be recorded for an unknown target")
	}
}

func TestBlock_Idempotent(t *testing.T) {
	repo := newMockSafetyRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Block(ctx, "alice", "bob"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Block(ctx, "alice", "bob"); err != nil {
		t.Errorf("repeat block must succeed, got %v", err)
	}
}

func TestUnblock_Idempotent(t *testing.T) {
	svc := newTestService(newMockSafetyRepo())

	if err := svc.Unblock(context.Background(), "alice", "never-blocked"); err != nil {
		t.Errorf("unblocking a non-blocked user must succeed, got %v", err)
	}
}

// --- Block Status ---

func TestBlockStatusBetween_Directions(t *testing.T) {
	repo := newMockSafetyRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Block(ctx, "alice", "bob"); err != nil {
		t.Fatal(err)
	}

	// From alice's side.
	status, err := svc.BlockStatusBetween(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.IsBlockedByMe || status.IsBlockedByThem {
		t.Errorf("alice's view wrong: %+v", status)
	}
	if status.CanMessage {
		t.Error("a one-sided block must stop messaging")
	}

	// From bob's side the directions flip.
	status, err = svc.BlockStatusBetween(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.IsBlockedByMe || !status.IsBlockedByThem {
		t.Errorf("bob's view wrong: %+v", status)
	}
	if status.CanMessage {
		t.Error("a one-sided block must stop messaging, either way round")
	}
}

func TestBlockStatusBetween_NoBlocks(t *testing.T) {
	svc := newTestService(newMockSafetyRepo())

	status, err := svc.BlockStatusBetween(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.IsBlockedByMe || status.IsBlockedByThem || !status.CanMessage {
		t.Errorf("unblocked pair should be able to message: %+v", status)
	}
}

// --- Report Tests ---

func TestReport_Success(t *testing.T) {
	repo := newMockSafetyRepo()
	svc := newTestService(repo)

	report, err := svc.Report(context.Background(), "alice", &ReportRequest{
		UserID: "bob",
		Reason: "harassment",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != ReportStatusPending {
		t.Errorf("expected pending status, got %q", report.Status)
	}
	if report.ReporterID != "alice" || report.ReportedUserID != "bob" {
		t.Errorf("report parties wrong: %+v", report)
	}
	if len(repo.reports) != 1 {
		t.Errorf("expected the report to be persisted")
	}
}

func TestReport_Self(t *testing.T) {
	svc := newTestService(newMockSafetyRepo())

	_, err := svc.Report(context.Background(), "alice", &ReportRequest{
		UserID: "alice",
		Reason: "testing",
	})
	assertAppError(t, err, 400)
}
