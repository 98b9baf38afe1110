package view

import (
	"time"

	"compintel/internal/model"
)

// TrendDays is the number of daily buckets in an activity trend.
const TrendDays = 30

// Signals filters and sorts a signal list. The input is not modified.
func Signals(all []model.Signal, f SignalFilter, mode SortMode, now time.Time) ([]model.Signal, Summary) {
	out := make([]model.Signal, 0, len(all))
	for _, s := range all {
		if f.Match(s, now) {
			out = append(out, s)
		}
	}
	SortSignals(out, mode)
	return out, Summary{Shown: len(out), Total: len(all)}
}

// Trend30 counts signals per day over the last 30 days. A signal's bucket is
// 29 minus its age in whole days, so bucket 29 is today and bucket 0 holds
// signals 29 days old. Older signals, including one exactly 30 days old, and
// future ones are dropped.
func Trend30(sigs []model.Signal, now time.Time) [TrendDays]int {
	var buckets [TrendDays]int
	for _, s := range sigs {
		idx := TrendDays - 1 - floorUnits(now.Sub(s.DetectedAt), 24*time.Hour)
		if idx < 0 || idx >= TrendDays {
			continue
		}
		buckets[idx]++
	}
	return buckets
}

// SignalSources maps signal ids to their source in srcs. A signal whose
// source is unknown or deleted has no entry.
func SignalSources(sigs []model.Signal, srcs []model.Source) map[string]model.Source {
	byID := make(map[string]model.Source, len(srcs))
	for _, s := range srcs {
		byID[s.ID] = s
	}
	out := make(map[string]model.Source, len(sigs))
	for _, sig := range sigs {
		if src, ok := byID[sig.SourceID]; ok {
			out[sig.ID] = src
		}
	}
	return out
}

// TrendTotal sums trend buckets.
func TrendTotal(buckets [TrendDays]int) int {
	n := 0
	for _, b := range buckets {
		n += b
	}
	return n
}

// SignalCount30d counts signals detected within the 30-day window.
func SignalCount30d(sigs []model.Signal, now time.Time) int {
	n := 0
	for _, s := range sigs {
		if Window30d.Contains(s.DetectedAt, now) && !s.DetectedAt.After(now) {
			n++
		}
	}
	return n
}

// RecentSignals returns signals detected in the last seven days, newest
// first, at most limit of them.
func RecentSignals(sigs []model.Signal, now time.Time, limit int) []model.Signal {
	out := make([]model.Signal, 0, limit)
	for _, s := range sigs {
		if !s.DetectedAt.Before(now.Add(-7*24*time.Hour)) {
			out = append(out, s)
		}
	}
	SortSignals(out, SortRecent)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
