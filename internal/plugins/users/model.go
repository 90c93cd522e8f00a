// Package users implements the user directory: public profile views shared
// by other plugins, profile updates, the dashboard summary, and referral
// stats. Account creation and credentials live in the auth plugin; this
// package only ever deals in sanitized profile data.
package users

import "time"

// Profile is the public view of a user handed to other users. It carries no
// credentials by construction -- the repository never selects the password
// hash into this type, which keeps the stripping invariant out of the hands
// of individual handlers.
type Profile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Age              *int      `json:"age,omitempty"`
	City             *string   `json:"city,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	Picture          *string   `json:"picture,omitempty"`
	IdentityBadge    *string   `json:"identity_badge,omitempty"`
	Interests        []string  `json:"interests"`
	Streak           int       `json:"streak"`
	ConnectionsCount int       `json:"connections_count"`
	IsOnline         bool      `json:"is_online"`
	LastActive       time.Time `json:"last_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// --- Request DTOs ---

// UpdateProfileRequest holds the editable profile fields. Pointer fields
// distinguish "not sent" from "set to empty"; only provided fields are
// written.
type UpdateProfileRequest struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio           *string   `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Interests     *[]string `json:"interests,omitempty" validate:"omitempty,max=25,dive,max=50"`
	IdentityBadge *string   `json:"identity_badge,omitempty" validate:"omitempty,max=100"`
	Age           *int      `json:"age,omitempty" validate:"omitempty,gte=13,lte=120"`
	City          *string   `json:"city,omitempty" validate:"omitempty,max=100"`
	Picture       *string   `json:"picture,omitempty" validate:"omitempty,max=512"`
}

// --- Response views ---

// DashboardStats summarizes the caller's progress counters.
type DashboardStats struct {
	Streak                int `json:"streak"`
	Connections           int `json:"connections"`
	CirclesJoined         int `json:"circles_joined"`
	CoursesInProgress     int `json:"courses_in_progress"`
	EmotionalPathProgress int `json:"emotional_path_progress"`
	WeeklyGrowth          int `json:"weekly_growth"`
}

// ReferralSummary aggregates the caller's referral funnel.
type ReferralSummary struct {
	ReferralCode   string `json:"referral_code"`
	ReferralsCount int    `json:"referrals_count"`
	Conversions    int    `json:"conversions"`
	Pending        int    `json:"pending"`
	CreditsEarned  int    `json:"credits_earned"`
}
