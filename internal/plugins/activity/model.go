// Package activity implements the per-user activity feed: curated
// opportunities and insights surfaced on the home screen.
package activity

import "time"

// Activity types and priorities as stored.
const (
	TypeOpportunity = "opportunity"
	TypeConnection  = "connection"
	TypeInsight     = "insight"
	TypeBoost       = "boost"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Activity is one feed entry.
type Activity struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ActionText  string    `json:"action_text"`
	ActionLink  string    `json:"action_link"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
