package view

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"compintel/internal/model"
)

// ErrUnknownTab is returned for a tab token outside the supported set.
var ErrUnknownTab = errors.New("unknown tab")

// ReviewTab selects a review queue partition.
type ReviewTab string

// Review queue tabs.
const (
	TabPending  ReviewTab = "pending"
	TabVerified ReviewTab = "verified"
	TabRejected ReviewTab = "rejected"
)

// ParseReviewTab validates a tab token. The empty string means TabPending.
func ParseReviewTab(s string) (ReviewTab, error) {
	switch t := ReviewTab(s); t {
	case "":
		return TabPending, nil
	case TabPending, TabVerified, TabRejected:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
	}
}

// ReviewSort orders a review queue.
type ReviewSort string

// Review queue orders.
const (
	ReviewByImpact ReviewSort = "impact"
	ReviewByRecent ReviewSort = "recent"
)

// ParseReviewSort validates a review sort token. The empty string means
// ReviewByImpact.
func ParseReviewSort(s string) (ReviewSort, error) {
	switch r := ReviewSort(s); r {
	case "":
		return ReviewByImpact, nil
	case ReviewByImpact, ReviewByRecent:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
}

// InReviewTab reports whether an insight belongs to a tab. Pending holds
// undecided insights whose baseline is pending or unverified; the other tabs
// hold insights whose recorded action, or baseline when no action exists,
// matches the tab.
func InReviewTab(ins model.Insight, tab ReviewTab, reviews map[string]model.ReviewAction) bool {
	a, decided := reviews[ins.ID]
	switch tab {
	case TabPending:
		return !decided && (ins.VerificationStatus == model.VerificationPending ||
			ins.VerificationStatus == model.VerificationUnverified)
	case TabVerified, TabRejected:
		if decided {
			return string(a.Action) == string(tab)
		}
		return string(ins.VerificationStatus) == string(tab)
	}
	return false
}

// ReviewFilter narrows a review queue.
type ReviewFilter struct {
	Category   model.Category
	Competitor string
}

func (f ReviewFilter) match(ins model.Insight) bool {
	if f.Category != "" && ins.Category != f.Category {
		return false
	}
	if f.Competitor != "" && !slices.Contains(ins.CompetitorIDs, f.Competitor) {
		return false
	}
	return true
}

// ReviewCounts is the size of every tab over the unfiltered set.
type ReviewCounts struct {
	Pending  int
	Verified int
	Rejected int
}

// CountReview sizes every review tab.
func CountReview(all []model.Insight, reviews map[string]model.ReviewAction) ReviewCounts {
	var c ReviewCounts
	for _, ins := range all {
		switch {
		case InReviewTab(ins, TabPending, reviews):
			c.Pending++
		case InReviewTab(ins, TabVerified, reviews):
			c.Verified++
		case InReviewTab(ins, TabRejected, reviews):
			c.Rejected++
		}
	}
	return c
}

// ReviewQueue lists one tab of the review queue. Impact order puts high
// impact first and then the most recently generated. Recent order uses the
// generation time on the pending tab and the decision time elsewhere, with
// undecided insights last.
func ReviewQueue(all []model.Insight, tab ReviewTab, f ReviewFilter, order ReviewSort, reviews map[string]model.ReviewAction) ([]model.Insight, Summary) {
	out := make([]model.Insight, 0, len(all))
	total := 0
	for _, ins := range all {
		if !InReviewTab(ins, tab, reviews) {
			continue
		}
		total++
		if f.match(ins) {
			out = append(out, ins)
		}
	}

	slices.SortStableFunc(out, func(a, b model.Insight) int {
		if order != ReviewByRecent {
			if c := cmp.Compare(ImpactRank(b.Impact), ImpactRank(a.Impact)); c != 0 {
				return c
			}
			return newestFirst(a.GeneratedAt, b.GeneratedAt)
		}
		if tab == TabPending {
			return newestFirst(a.GeneratedAt, b.GeneratedAt)
		}
		return cmp.Compare(decisionMillis(b.ID, reviews), decisionMillis(a.ID, reviews))
	})
	return out, Summary{Shown: len(out), Total: total}
}

// decisionMillis is the action time in Unix milliseconds, or 0 when absent.
func decisionMillis(id string, reviews map[string]model.ReviewAction) int64 {
	a, ok := reviews[id]
	if !ok {
		return 0
	}
	return a.At.UnixMilli()
}
