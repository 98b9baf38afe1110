package view

import (
	"time"

	"compintel/internal/model"
)

// InsightStats are the header counts of the insights list.
type InsightStats struct {
	Total int
	New   int
}

// CountInsights counts all insights and those currently new. It ignores any
// filter.
func CountInsights(all []model.Insight, now time.Time) InsightStats {
	st := InsightStats{Total: len(all)}
	for _, ins := range all {
		if IsNew(ins, now) {
			st.New++
		}
	}
	return st
}

// Insights filters and sorts an insight list. The input is not modified.
func Insights(all []model.Insight, f InsightFilter, mode SortMode, reviews map[string]model.ReviewAction, now time.Time) ([]model.Insight, Summary) {
	out := make([]model.Insight, 0, len(all))
	for _, ins := range all {
		if f.Match(ins, reviews, now) {
			out = append(out, ins)
		}
	}
	SortInsights(out, mode)
	return out, Summary{Shown: len(out), Total: len(all)}
}
