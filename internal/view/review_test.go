package view

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"compintel/internal/catalog"
	"compintel/internal/model"
)

func TestReviewQueueBaseline(t *testing.T) {
	all := catalog.Default().Insights()

	tests := []struct {
		name  string
		tab   ReviewTab
		f     ReviewFilter
		order ReviewSort
		want  []string
		sum   Summary
	}{
		{
			name:  "pending by impact",
			tab:   TabPending,
			order: ReviewByImpact,
			want:  []string{"ins-10", "ins-4", "ins-9", "ins-12", "ins-5", "ins-6", "ins-13", "ins-8"},
			sum:   Summary{Shown: 8, Total: 8},
		},
		{
			name:  "pending by recent",
			tab:   TabPending,
			order: ReviewByRecent,
			want:  []string{"ins-10", "ins-4", "ins-9", "ins-6", "ins-12", "ins-13", "ins-8", "ins-5"},
			sum:   Summary{Shown: 8, Total: 8},
		},
		{
			name:  "pending filtered by category",
			tab:   TabPending,
			f:     ReviewFilter{Category: model.CategoryTechnical},
			order: ReviewByImpact,
			want:  []string{"ins-9", "ins-12", "ins-6"},
			sum:   Summary{Shown: 3, Total: 8},
		},
		{
			name:  "verified keeps catalog order without actions",
			tab:   TabVerified,
			order: ReviewByRecent,
			want:  []string{"ins-1", "ins-2", "ins-3", "ins-7", "ins-11"},
			sum:   Summary{Shown: 5, Total: 5},
		},
		{
			name:  "rejected is empty",
			tab:   TabRejected,
			order: ReviewByImpact,
			want:  []string{},
			sum:   Summary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sum := ReviewQueue(all, tt.tab, tt.f, tt.order, nil)
			if diff := cmp.Diff(tt.want, insightIDs(got)); diff != "" {
				t.Errorf("ReviewQueue() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.sum, sum); diff != "" {
				t.Errorf("Summary mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if diff := cmp.Diff(ReviewCounts{Pending: 8, Verified: 5}, CountReview(all, nil)); diff != "" {
		t.Errorf("CountReview() mismatch (-want +got):\n%s", diff)
	}
}

func TestReviewQueueWithActions(t *testing.T) {
	all := catalog.Default().Insights()
	t0 := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	reviews := map[string]model.ReviewAction{
		"ins-4":  {Action: model.DecisionVerified, At: t0, By: "You"},
		"ins-12": {Action: model.DecisionVerified, At: t0.Add(time.Hour), By: "You"},
		"ins-9":  {Action: model.DecisionRejected, At: t0, By: "You", Reason: model.ReasonDuplicate},
		"ins-1":  {Action: model.DecisionRejected, At: t0.Add(-time.Hour), By: "You", Reason: model.ReasonOutdated},
	}

	verified, _ := ReviewQueue(all, TabVerified, ReviewFilter{}, ReviewByRecent, reviews)
	wantVerified := []string{"ins-12", "ins-4", "ins-2", "ins-3", "ins-7", "ins-11"}
	if diff := cmp.Diff(wantVerified, insightIDs(verified)); diff != "" {
		t.Errorf("verified tab mismatch (-want +got):\n%s", diff)
	}

	rejected, _ := ReviewQueue(all, TabRejected, ReviewFilter{}, ReviewByRecent, reviews)
	if diff := cmp.Diff([]string{"ins-9", "ins-1"}, insightIDs(rejected)); diff != "" {
		t.Errorf("rejected tab mismatch (-want +got):\n%s", diff)
	}

	pending, _ := ReviewQueue(all, TabPending, ReviewFilter{}, ReviewByImpact, reviews)
	if diff := cmp.Diff([]string{"ins-10", "ins-5", "ins-6", "ins-13", "ins-8"}, insightIDs(pending)); diff != "" {
		t.Errorf("pending tab mismatch (-want +got):\n%s", diff)
	}

	want := ReviewCounts{Pending: 5, Verified: 6, Rejected: 2}
	if diff := cmp.Diff(want, CountReview(all, reviews)); diff != "" {
		t.Errorf("CountReview() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReviewTokens(t *testing.T) {
	if tab, err := ParseReviewTab(""); err != nil || tab != TabPending {
		t.Errorf("ParseReviewTab(\"\") = %q, %v", tab, err)
	}
	if _, err := ParseReviewTab("archived"); !errors.Is(err, ErrUnknownTab) {
		t.Errorf("ParseReviewTab(archived) error = %v, want ErrUnknownTab", err)
	}
	if _, err := ParseReviewSort("oldest"); !errors.Is(err, ErrUnknownSort) {
		t.Errorf("ParseReviewSort(oldest) error = %v, want ErrUnknownSort", err)
	}
}

func TestActivity(t *testing.T) {
	all := catalog.Default().Insights()
	up, down := model.FeedbackUp, model.FeedbackDown
	interactions := map[string]model.Interaction{
		"ins-2":    {Bookmarked: true, Feedback: &up},
		"ins-5":    {Feedback: &down, Flagged: true},
		"ins-1":    {Bookmarked: true},
		"ins-gone": {Bookmarked: true},
		"ins-7":    {},
	}

	tests := []struct {
		tab  ActivityTab
		want []string
	}{
		{tab: TabBookmarked, want: []string{"ins-1", "ins-2"}},
		{tab: TabLiked, want: []string{"ins-2"}},
		{tab: TabDisliked, want: []string{"ins-5"}},
		{tab: TabFlagged, want: []string{"ins-5"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, insightIDs(Activity(all, tt.tab, interactions))); diff != "" {
				t.Errorf("Activity() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	want := ActivityCounts{Bookmarked: 3, Liked: 1, Disliked: 1, Flagged: 1}
	if diff := cmp.Diff(want, CountActivity(interactions)); diff != "" {
		t.Errorf("CountActivity() mismatch (-want +got):\n%s", diff)
	}
}
