package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"compintel/internal/model"
)

// CompetitorStats are the header counts of the competitor list.
type CompetitorStats struct {
	Total        int
	Critical     int
	TotalSignals int
}

// Competitors filters the competitor list, keeping declaration order.
func Competitors(all []model.Competitor, f CompetitorFilter) ([]model.Competitor, Summary) {
	out := make([]model.Competitor, 0, len(all))
	for _, c := range all {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out, Summary{Shown: len(out), Total: len(all)}
}

// CountCompetitors counts critical competitors and sums their 30-day signal
// counts.
func CountCompetitors(all []model.Competitor) CompetitorStats {
	st := CompetitorStats{Total: len(all)}
	for _, c := range all {
		if c.ThreatLevel == model.ThreatCritical {
			st.Critical++
		}
		st.TotalSignals += c.SignalCount30d
	}
	return st
}

// CompetitorRefs lists baseline competitors followed by user-added ones whose
// id is not already taken.
func CompetitorRefs(baseline []model.Competitor, user []model.CompetitorRef) []model.CompetitorRef {
	seen := make(map[string]struct{}, len(baseline)+len(user))
	out := make([]model.CompetitorRef, 0, len(baseline)+len(user))
	for _, c := range baseline {
		seen[c.ID] = struct{}{}
		out = append(out, model.CompetitorRef{ID: c.ID, Name: c.Name})
	}
	for _, c := range user {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ActivitySummary is the generated briefing used when a competitor has no
// analyst briefing of its own.
func ActivitySummary(c model.Competitor, signals int) string {
	level := "moderate"
	if signals > 5 {
		level = "elevated"
	}
	products := c.KeyProducts
	if len(products) > 2 {
		products = products[:2]
	}
	move := "Continue monitoring for strategic shifts."
	if len(c.RecentMoves) > 0 {
		move = c.RecentMoves[0]
	}
	return fmt.Sprintf("%s has shown %s activity with %d signals detected. Key focus areas include %s. %s",
		c.Name, level, signals, strings.Join(products, " and "), move)
}

// Briefing is the one-paragraph summary shown on a competitor page: the
// analyst briefing with its signal counts filled in, or ActivitySummary.
func Briefing(c model.Competitor, sigs []model.Signal) string {
	if c.Briefing == "" {
		return ActivitySummary(c, len(sigs))
	}
	strong := 0
	for _, s := range sigs {
		if s.Strength == model.StrengthStrong {
			strong++
		}
	}
	return strings.NewReplacer(
		"{signals}", strconv.Itoa(len(sigs)),
		"{strong}", strconv.Itoa(strong),
	).Replace(c.Briefing)
}

// InsightRow is an insight together with its derived list state.
type InsightRow struct {
	Insight model.Insight
	Status  model.VerificationStatus
	New     bool
}

// CompetitorQuery holds the list options of a competitor page.
type CompetitorQuery struct {
	Signals    SignalFilter
	SignalSort SortMode
	Insights   InsightFilter
}

// CompetitorView is the per-competitor page.
type CompetitorView struct {
	Competitor     model.Competitor
	Signals        []model.Signal
	SignalSummary  Summary
	SignalSources  map[string]model.Source
	Insights       []InsightRow
	InsightSummary Summary
	Trend          [TrendDays]int
	Summary        string
}

// Competitor builds a competitor page from the competitor's own signals and
// insights. The trend and briefing use every signal; the lists honor q.
// srcs is the effective source set used to resolve signal sources.
func Competitor(c model.Competitor, sigs []model.Signal, ins []model.Insight, srcs []model.Source,
	reviews map[string]model.ReviewAction, q CompetitorQuery, now time.Time) CompetitorView {
	list, sum := Signals(sigs, q.Signals, q.SignalSort, now)

	matched := make([]model.Insight, 0, len(ins))
	for _, in := range ins {
		if q.Insights.Match(in, reviews, now) {
			matched = append(matched, in)
		}
	}
	SortInsights(matched, SortRecent)
	rows := make([]InsightRow, len(matched))
	for i, in := range matched {
		rows[i] = InsightRow{Insight: in, Status: EffectiveStatus(in, reviews), New: IsNew(in, now)}
	}

	return CompetitorView{
		Competitor:     c,
		Signals:        list,
		SignalSummary:  sum,
		SignalSources:  SignalSources(list, srcs),
		Insights:       rows,
		InsightSummary: Summary{Shown: len(rows), Total: len(ins)},
		Trend:          Trend30(sigs, now),
		Summary:        Briefing(c, sigs),
	}
}
