package courses

import (
	"context"
	"fmt"

	"github.com/xelaconnect/backend/internal/apperror"
)

// CourseService exposes the course catalog.
type CourseService struct {
	repo CourseRepository
}

// NewCourseService creates the course service.
func NewCourseService(repo CourseRepository) *CourseService {
	return &CourseService{repo: repo}
}

// List returns the full catalog.
func (s *CourseService) List(ctx context.Context) ([]Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing courses: %w", err))
	}

	return courses, nil
}

// Detail returns the course joined with the caller's progress. A user with
// no progress row gets the zero progress, not an error.
func (s *CourseService) Detail(ctx context.Context, courseID, userID string) (*CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	progress, err := s.repo.FindProgress(ctx, courseID, userID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("loading course progress: %w", err))
	}

	detail := &CourseDetail{
		Course:   course,
		Progress: Progress{CompletedModules: []int{}},
	}
	if progress != nil {
		detail.Progress = *progress
		detail.IsPurchased = true
	}

	return detail, nil
}
