// Package circles implements community circles: themed groups users join
// and leave. Membership lives in a join table and the member count is
// always derived from it, never stored.
package circles

import "time"

// Circle is one community group.
type Circle struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Emoji       string    `json:"emoji"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Gradient    string    `json:"gradient"`
	Tags        []string  `json:"tags"`
	MemberCount int       `json:"members_count"`
	Active      bool      `json:"active"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CircleDetail is the member-aware view of a circle.
type CircleDetail struct {
	Circle   *Circle `json:"circle"`
	IsMember bool    `json:"is_member"`
}
