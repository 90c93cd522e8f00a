// Package safety implements block/unblock/report relationships between
// users. Blocking is directional: A blocking B and B blocking A are two
// independent facts, and either one is enough to stop messaging.
package safety

import "time"

// ReportStatusPending is the initial status of every new report.
const ReportStatusPending = "pending"

// Report is a user-submitted complaint about another user. Reports start
// pending and are triaged out of band.
type Report struct {
	ID             string    `json:"id"`
	ReporterID     string    `json:"reporter_id"`
	ReportedUserID string    `json:"reported_user_id"`
	Reason         string    `json:"reason"`
	Details        string    `json:"details"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// BlockStatus reports both directions of a block relationship plus the
// derived messaging capability.
type BlockStatus struct {
	IsBlockedByMe   bool `json:"is_blocked_by_me"`
	IsBlockedByThem bool `json:"is_blocked_by_them"`
	CanMessage      bool `json:"can_message"`
}

// --- Request DTOs ---

// ReportRequest carries a report submission.
type ReportRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Reason  string `json:"reason" validate:"required,max=200"`
	Details string `json:"details" validate:"omitempty,max=2000"`
}
