package courses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xelaconnect/backend/internal/apperror"
)

// CourseRepository defines the data access contract for the catalog.
type CourseRepository interface {
	// List returns all courses.
	List(ctx context.Context) ([]Course, error)

	// FindByID returns the course or apperror.NotFound.
	FindByID(ctx context.Context, id string) (*Course, error)

	// FindProgress returns the user's progress row for the course, or
	// (nil, nil) when none exists.
	FindProgress(ctx context.Context, courseID, userID string) (*Progress, error)
}

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a course repository backed by the pool.
func NewCourseRepository(db *sql.DB) CourseRepository {
	return &courseRepository{db: db}
}

const courseColumns = `id, title, description, category, image,
	price_credits, price_usd, modules, total_modules, duration, created_at`

func (r *courseRepository) List(ctx context.Context) ([]Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		courses = append(courses, *course)
	}

	return courses, rows.Err()
}

func (r *courseRepository) FindByID(ctx context.Context, id string) (*Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying course: %w", err)
	}

	return course, nil
}

func (r *courseRepository) FindProgress(ctx context.Context, courseID, userID string) (*Progress, error) {
	query := `SELECT progress, completed_modules FROM course_progress
	          WHERE course_id = ? AND user_id = ?`

	var (
		progress     Progress
		rawCompleted sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, courseID, userID).Scan(&progress.Progress, &rawCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying course progress: %w", err)
	}

	progress.CompletedModules = []int{}
	if rawCompleted.Valid && rawCompleted.String != "" {
		if err := json.Unmarshal([]byte(rawCompleted.String), &progress.CompletedModules); err != nil {
			return nil, fmt.Errorf("decoding completed modules: %w", err)
		}
	}

	return &progress, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*Course, error) {
	var (
		course     Course
		rawModules sql.NullString
	)

	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.Image,
		&course.PriceCredits,
		&course.PriceUSD,
		&rawModules,
		&course.TotalModules,
		&course.Duration,
		&course.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	course.Modules = []CourseModule{}
	if rawModules.Valid && rawModules.String != "" {
		if err := json.Unmarshal([]byte(rawModules.String), &course.Modules); err != nil {
			return nil, fmt.Errorf("decoding modules: %w", err)
		}
	}

	return &course, nil
}
