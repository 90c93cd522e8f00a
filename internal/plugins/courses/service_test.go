package courses

import (
	"context"
	"errors"
	"testing"

	"github.com/xelaconnect/backend/internal/apperror"
)

type mockCourseRepo struct {
	courses  map[string]*Course
	progress map[string]*Progress // courseID|userID
}

func (m *mockCourseRepo) List(ctx context.Context) ([]Course, error) {
	var out []Course
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, apperror.NewNotFound("course not found")
	}
	return c, nil
}

func (m *mockCourseRepo) FindProgress(ctx context.Context, courseID, userID string) (*Progress, error) {
	return m.progress[courseID+"|"+userID], nil
}

func TestDetail_NoProgressRow(t *testing.T) {
	repo := &mockCourseRepo{
		courses:  map[string]*Course{"crs-1": {ID: "crs-1", Title: "Emotional Mastery"}},
		progress: map[string]*Progress{},
	}
	svc := NewCourseService(repo)

	detail, err := svc.Detail(context.Background(), "crs-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.IsPurchased {
		t.Error("no progress row must mean not purchased")
	}
	if detail.Progress.Progress != 0 {
		t.Errorf("expected zero progress, got %d", detail.Progress.Progress)
	}
	if detail.Progress.CompletedModules == nil {
		t.Error("completed modules must serialize as an empty list, not null")
	}
}

func TestDetail_WithProgress(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]*Course{"crs-1": {ID: "crs-1"}},
		progress: map[string]*Progress{
			"crs-1|user-1": {Progress: 40, CompletedModules: []int{0, 1}},
		},
	}
	svc := NewCourseService(repo)

	detail, err := svc.Detail(context.Background(), "crs-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.IsPurchased {
		t.Error("a progress row must mark the course as purchased")
	}
	if detail.Progress.Progress != 40 || len(detail.Progress.CompletedModules) != 2 {
		t.Errorf("progress not carried through: %+v", detail.Progress)
	}
}

func TestDetail_UnknownCourse(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{courses: map[string]*Course{}})

	_, err := svc.Detail(context.Background(), "ghost", "user-1")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}
