// Package courses implements the course catalog and per-user progress.
// Progress rows double as purchase records: a user with no row simply has
// not started the course.
package courses

import "time"

// CourseModule is one lesson inside a course.
type CourseModule struct {
	ModuleID        int    `json:"module_id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url,omitempty"`
}

// Course is one catalog entry.
type Course struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Image        string         `json:"image"`
	PriceCredits int            `json:"price_credits"`
	PriceUSD     float64        `json:"price_usd"`
	Modules      []CourseModule `json:"modules"`
	TotalModules int            `json:"total_modules"`
	Duration     string         `json:"duration"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Progress is a user's state in one course.
type Progress struct {
	Progress         int   `json:"progress"`
	CompletedModules []int `json:"completed_modules"`
}

// CourseDetail is the progress-aware view of a course.
type CourseDetail struct {
	Course      *Course  `json:"course"`
	Progress    Progress `json:"user_progress"`
	IsPurchased bool     `json:"is_purchased"`
}
