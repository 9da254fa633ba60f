// Package dateutil holds the pure time-formatting helpers the UI renders
// with. No I/O, no state.
package dateutil

import (
	"fmt"
	"time"
)

// DefaultEditThreshold separates a real edit from the clock-skew-sized gap
// between created_at and updated_at that creation itself produces.
const DefaultEditThreshold = 5 * time.Second

// FormatTimeAgo renders t relative to now: 방금 전 under a minute, then
// minutes, hours and days, and an absolute Korean date once 30 days old.
// A zero time renders as empty.
func FormatTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	minutes := int(now.Sub(t).Minutes())
	switch {
	case minutes < 1:
		return "방금 전"
	case minutes < 60:
		return fmt.Sprintf("%d분 전", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%d시간 전", minutes/60)
	default:
		days := minutes / (24 * 60)
		if days < 30 {
			return fmt.Sprintf("%d일 전", days)
		}
		return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
	}
}

// IsContentEdited reports whether updated differs from created by more than
// threshold. A zero threshold uses the default.
func IsContentEdited(created, updated time.Time, threshold time.Duration) bool {
	if created.IsZero() || updated.IsZero() {
		return false
	}
	if threshold <= 0 {
		threshold = DefaultEditThreshold
	}
	diff := updated.Sub(created)
	if diff < 0 {
		diff = -diff
	}
	return diff > threshold
}

// Age computes a calendar-accurate age in years at the reference date.
// Returns -1 when the birth date does not parse.
func Age(birth string, at time.Time) int {
	parsed, err := time.Parse("2006-01-02", birth)
	if err != nil {
		return -1
	}
	age := at.Year() - parsed.Year()
	if at.Month() < parsed.Month() ||
		(at.Month() == parsed.Month() && at.Day() < parsed.Day()) {
		age--
	}
	return age
}
