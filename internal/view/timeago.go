package view

import (
	"fmt"
	"time"
)

// Freshness buckets a timestamp by age.
type Freshness string

// Freshness buckets.
const (
	Fresh  Freshness = "fresh"
	Recent Freshness = "recent"
	Stale  Freshness = "stale"
)

// FormatDate renders a date as "23 Jan 2026" in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2 Jan 2006")
}

// TimeAgo renders a timestamp relative to now.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	mins := floorUnits(d, time.Minute)
	hours := floorUnits(d, time.Hour)
	days := floorUnits(d, 24*time.Hour)
	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	default:
		return FormatDate(t)
	}
}

// FreshnessOf buckets t: under an hour is fresh, under a day recent.
func FreshnessOf(t, now time.Time) Freshness {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return Fresh
	case d < 24*time.Hour:
		return Recent
	default:
		return Stale
	}
}
