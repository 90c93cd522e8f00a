// Package presence derives coarse online/offline status from last-activity
// timestamps. This is a polling approximation, not a live signal: a user is
// "online" for up to five minutes after their last request regardless of
// whether they are still connected.
package presence

import (
	"time"
)

// Status classification thresholds. These are the externally observable
// contract; any future push transport must preserve them.
const (
	onlineWindow         = 5 * time.Minute
	recentlyActiveWindow = 60 * time.Minute
)

// Status values.
const (
	StatusOnline         = "online"
	StatusRecentlyActive = "recently_active"
	StatusOffline        = "offline"
)

// DeriveStatus classifies a last-activity timestamp relative to now.
func DeriveStatus(now, lastActive time.Time) string {
	delta := now.Sub(lastActive)
	switch {
	case delta < onlineWindow:
		return StatusOnline
	case delta < recentlyActiveWindow:
		return StatusRecentlyActive
	default:
		return StatusOffline
	}
}
