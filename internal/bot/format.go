package bot

import (
	"fmt"
	"strings"
	"time"

	"compintel/internal/model"
	"compintel/internal/synthesis"
	"compintel/internal/view"
)

const (
	listLimit    = 15
	commentLimit = 3
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Names maps competitor ids to display names.
type Names map[string]string

func (n Names) of(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return id
}

func (n Names) all(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = n.of(id)
	}
	return strings.Join(out, ", ")
}

// Sparkline renders counts as a row of block characters scaled to the
// largest value.
func Sparkline(counts []int) string {
	top := 0
	for _, c := range counts {
		top = max(top, c)
	}
	var b strings.Builder
	for _, c := range counts {
		if top == 0 || c <= 0 {
			b.WriteRune(sparkRunes[0])
			continue
		}
		b.WriteRune(sparkRunes[(c*(len(sparkRunes)-1)+top-1)/top])
	}
	return b.String()
}

// FormatDashboard formats the landing page.
func FormatDashboard(d view.Dashboard, names Names, now time.Time) string {
	var b strings.Builder
	b.WriteString("Dashboard\n")
	if len(d.KPIs) > 0 {
		b.WriteString("\n")
		for _, k := range d.KPIs {
			sign := "+"
			if k.ChangeDirection == "down" {
				sign = "-"
			}
			fmt.Fprintf(&b, "%s: %s (%s%d%% %s) %s\n", k.Label, k.Value, sign, k.Change, k.Period, Sparkline(k.Sparkline))
		}
	}
	fmt.Fprintf(&b, "\nInsights: %d total, %d new\n", d.Insights.Total, d.Insights.New)
	fmt.Fprintf(&b, "Review queue: %d pending, %d verified, %d rejected\n",
		d.Review.Pending, d.Review.Verified, d.Review.Rejected)

	b.WriteString("\nThreat matrix (threat score vs 30-day activity):\n")
	for _, q := range view.Quadrants {
		var cells []string
		for _, p := range d.Threats {
			if p.Quadrant == q {
				cells = append(cells, fmt.Sprintf("%s (%d, %d signals)", p.Competitor.Name, p.Competitor.ThreatScore, p.Activity))
			}
		}
		if len(cells) > 0 {
			fmt.Fprintf(&b, "  %s: %s\n", q, strings.Join(cells, ", "))
		}
	}

	b.WriteString("\nRecent signals (7 days):\n")
	if len(d.RecentSignals) == 0 {
		b.WriteString("  none\n")
	}
	for _, s := range d.RecentSignals {
		fmt.Fprintf(&b, "  %s [%s] %s (%s, %s)\n", s.ID, s.Category, s.Title, names.of(s.CompetitorID), view.TimeAgo(s.DetectedAt, now))
	}

	b.WriteString("\nLatest insights:\n")
	for _, ins := range d.LatestInsights {
		fmt.Fprintf(&b, "  %s [%s] %s\n", ins.ID, ins.Impact, ins.Title)
	}
	return b.String()
}

// FormatInsightList formats a filtered insight list.
func FormatInsightList(list []model.Insight, sum view.Summary, c *view.Composer) string {
	if len(list) == 0 {
		return fmt.Sprintf("No insights match (%s).", sum)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Insights: %s\n", sum)
	for i, ins := range list {
		if i == listLimit {
			fmt.Fprintf(&b, "\n... and %d more. Narrow the filter to see them.\n", len(list)-listLimit)
			break
		}
		flags := view.StatusLabel(c.Status(ins))
		if c.IsNew(ins) {
			flags += ", new"
		}
		fmt.Fprintf(&b, "\n%s [%s/%s] %s\n   %s, %s\n", ins.ID, ins.Impact, ins.Category, ins.Title, flags, view.FormatDate(ins.GeneratedAt))
	}
	return b.String()
}

// FormatInsight formats the detail page of an insight.
func FormatInsight(d view.InsightDetail, now time.Time) string {
	ins := d.Insight
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", ins.ID, ins.Title)
	fmt.Fprintf(&b, "%s | %s impact | %d%% confidence | %s (%s)\n",
		ins.Category, ins.Impact, ins.Confidence, view.FormatDate(ins.GeneratedAt), view.FreshnessOf(ins.GeneratedAt, now))

	status := view.StatusLabel(d.Status)
	if d.New {
		status += " | New"
	}
	b.WriteString(status + "\n")
	if d.Reviewed {
		b.WriteString(formatReviewer(d.Status, d.Reviewer, now))
	}

	fmt.Fprintf(&b, "\n%s\n", ins.Synthesis)

	if len(ins.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for i, r := range ins.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r)
		}
	}
	if len(ins.TeamRelevance) > 0 {
		teams := make([]string, len(ins.TeamRelevance))
		for i, t := range ins.TeamRelevance {
			teams[i] = string(t)
		}
		fmt.Fprintf(&b, "\nRelevant to: %s\n", strings.Join(teams, ", "))
	}
	if len(d.Competitors) > 0 {
		names := make([]string, len(d.Competitors))
		for i, c := range d.Competitors {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, "Competitors: %s\n", strings.Join(names, ", "))
	}
	if len(d.Signals) > 0 {
		b.WriteString("\nSignals:\n")
		for _, s := range d.Signals {
			fmt.Fprintf(&b, "  %s [%s] %s\n", s.ID, s.Strength, s.Title)
			if src, ok := d.SignalSources[s.ID]; ok {
				fmt.Fprintf(&b, "    via %s\n", src.Title)
			}
		}
	}
	if len(d.Sources) > 0 {
		b.WriteString("\nSources:\n")
		for _, s := range d.Sources {
			fmt.Fprintf(&b, "  %s %s\n  %s\n", s.ID, s.Title, s.URL)
		}
	}
	if len(d.Related) > 0 {
		b.WriteString("\nRelated:\n")
		for _, r := range d.Related {
			fmt.Fprintf(&b, "  %s %s\n", r.ID, r.Title)
		}
	}

	fmt.Fprintf(&b, "\nComments (%d)\n", len(d.Comments))
	start := max(0, len(d.Comments)-commentLimit)
	for _, c := range d.Comments[start:] {
		fmt.Fprintf(&b, "  %s (%s), %s: %s\n", c.Author, c.AuthorRole, view.TimeAgo(c.CreatedAt, now), c.Content)
	}

	if line := interactionLine(d.Interaction); line != "" {
		fmt.Fprintf(&b, "\nYou: %s\n", line)
	}
	return b.String()
}

func formatReviewer(status model.VerificationStatus, r view.Reviewer, now time.Time) string {
	var b strings.Builder
	verb := "Verified"
	if status == model.VerificationRejected {
		verb = "Rejected"
	}
	fmt.Fprintf(&b, "%s by %s, %s\n", verb, r.By, view.TimeAgo(r.At, now))
	if r.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", view.ReasonLabel(r.Reason))
	}
	if r.Comment != "" {
		fmt.Fprintf(&b, "\"%s\"\n", r.Comment)
	}
	return b.String()
}

func interactionLine(in model.Interaction) string {
	var parts []string
	switch in.FeedbackValue() {
	case model.FeedbackUp:
		parts = append(parts, "liked")
	case model.FeedbackDown:
		parts = append(parts, "disliked")
	}
	if in.Bookmarked {
		parts = append(parts, "bookmarked")
	}
	if in.Flagged {
		parts = append(parts, "flagged")
	}
	return strings.Join(parts, ", ")
}

// FormatCompetitorList formats the competitor list with its header stats.
func FormatCompetitorList(list []model.Competitor, sum view.Summary, stats view.CompetitorStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Competitors: %d tracked, %d critical, %d signals (30d)\n",
		stats.Total, stats.Critical, stats.TotalSignals)
	if sum.Filtered() {
		fmt.Fprintf(&b, "Showing %s\n", sum)
	}
	if len(list) == 0 {
		b.WriteString("\nNo competitors match.")
		return b.String()
	}
	for _, c := range list {
		fmt.Fprintf(&b, "\n%s (/competitor %s)\n   %s, %s threat (%d), %d signals\n",
			c.Name, c.Slug, c.Type, c.ThreatLevel, c.ThreatScore, c.SignalCount30d)
	}
	return b.String()
}

// Competitor page tabs.
const (
	tabOverview = "overview"
	tabSignals  = "signals"
	tabInsights = "insights"
)

// FormatCompetitor formats one tab of a competitor page.
func FormatCompetitor(cv view.CompetitorView, tab string, now time.Time) string {
	c := cv.Competitor
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %s threat %d/100)\n", c.Name, c.Type, c.ThreatLevel, c.ThreatScore)

	switch tab {
	case tabSignals:
		b.WriteString(formatSignalLines(cv, now))
	case tabInsights:
		b.WriteString(formatInsightRows(cv.Insights, cv.InsightSummary))
	default:
		fmt.Fprintf(&b, "%s\n%s\n", c.Website, c.Description)
		fmt.Fprintf(&b, "\nFounded %s | %s | %s employees | %s\n", c.Founded, c.Funding, c.Employees, c.Headquarters)
		writeList(&b, "Key products", c.KeyProducts)
		writeList(&b, "Strengths", c.Strengths)
		writeList(&b, "Weaknesses", c.Weaknesses)
		writeList(&b, "Recent moves", c.RecentMoves)
		fmt.Fprintf(&b, "\nActivity (30d): %s %d signals\n", Sparkline(cv.Trend[:]), view.TrendTotal(cv.Trend))
		fmt.Fprintf(&b, "Last activity: %s\n", view.TimeAgo(c.LastActivityDate, now))
		fmt.Fprintf(&b, "\n%s\n", cv.Summary)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}

func formatInsightRows(rows []view.InsightRow, sum view.Summary) string {
	var b strings.Builder
	switch {
	case sum.Total == 0:
		return "\nNo insights yet.\n"
	case len(rows) == 0:
		return fmt.Sprintf("\nNo insights match (%s).\n", sum)
	}
	fmt.Fprintf(&b, "Insights: %s\n", sum)
	for i, r := range rows {
		if i == listLimit {
			fmt.Fprintf(&b, "\n... and %d more.\n", len(rows)-listLimit)
			break
		}
		flags := view.StatusLabel(r.Status)
		if r.New {
			flags += ", new"
		}
		ins := r.Insight
		fmt.Fprintf(&b, "\n%s [%s/%s] %s\n   %s, %s\n", ins.ID, ins.Impact, ins.Category, ins.Title, flags, view.FormatDate(ins.GeneratedAt))
	}
	return b.String()
}

// FormatSignals formats a competitor's filtered signal list.
func FormatSignals(cv view.CompetitorView, now time.Time) string {
	return fmt.Sprintf("Signals for %s\n%s", cv.Competitor.Name, formatSignalLines(cv, now))
}

func formatSignalLines(cv view.CompetitorView, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Signals: %s\n", cv.SignalSummary)
	if len(cv.Signals) == 0 {
		b.WriteString("\nNo signals match.\n")
	}
	for i, s := range cv.Signals {
		if i == listLimit {
			fmt.Fprintf(&b, "\n... and %d more.\n", len(cv.Signals)-listLimit)
			break
		}
		fmt.Fprintf(&b, "\n%s [%s/%s] %s\n   %s\n   %s\n", s.ID, s.Category, s.Strength, s.Title, s.Summary, view.TimeAgo(s.DetectedAt, now))
		if src, ok := cv.SignalSources[s.ID]; ok {
			fmt.Fprintf(&b, "   Source: %s\n", src.Title)
		}
	}
	return b.String()
}

// FormatSources formats the source list with its header stats.
func FormatSources(list []model.Source, sum view.Summary, stats view.SourceStats, names Names, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sources: %d total, %d verified\n", stats.Total, stats.Verified)
	if sum.Filtered() {
		fmt.Fprintf(&b, "Showing %s\n", sum)
	}
	if len(list) == 0 {
		b.WriteString("\nNo sources match.")
		return b.String()
	}
	for i, s := range list {
		if i == listLimit {
			fmt.Fprintf(&b, "\n... and %d more.\n", len(list)-listLimit)
			break
		}
		mark := ""
		if s.UserAdded {
			mark = " (added by you)"
		}
		fmt.Fprintf(&b, "\n%s [%s] %s%s\n   %s | %s | scraped %s\n   %s\n",
			s.ID, s.Type, s.Title, mark, names.of(s.CompetitorID), s.Reliability, view.TimeAgo(s.ScrapedAt, now), s.URL)
	}
	return b.String()
}

// FormatSource formats one source.
func FormatSource(s model.Source, names Names) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", s.ID, s.Title)
	fmt.Fprintf(&b, "Type: %s\nCompetitor: %s\nURL: %s\nReliability: %s\n", s.Type, names.of(s.CompetitorID), s.URL, s.Reliability)
	fmt.Fprintf(&b, "Published: %s\n", view.FormatDate(s.PublishedAt))
	if s.Guidance != "" {
		fmt.Fprintf(&b, "Guidance: %s\n", s.Guidance)
	}
	if s.Snippet != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Snippet)
	}
	return b.String()
}

// FormatReviewQueue formats one review tab.
func FormatReviewQueue(tab view.ReviewTab, list []model.Insight, sum view.Summary, counts view.ReviewCounts, names Names, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review queue: %d pending, %d verified, %d rejected\n", counts.Pending, counts.Verified, counts.Rejected)
	fmt.Fprintf(&b, "%s: %s\n", tab, sum)
	if len(list) == 0 {
		if tab == view.TabPending && sum.Total == 0 {
			b.WriteString("\nAll caught up. Nothing is waiting for review.")
		} else {
			b.WriteString("\nNothing here.")
		}
		return b.String()
	}
	for _, ins := range list {
		fmt.Fprintf(&b, "\n%s [%s/%s] %s\n   %s | %d%% confidence | %s (%s)\n",
			ins.ID, ins.Impact, ins.Category, ins.Title, names.all(ins.CompetitorIDs), ins.Confidence,
			view.FormatDate(ins.GeneratedAt), view.FreshnessOf(ins.GeneratedAt, now))
	}
	if tab == view.TabPending {
		b.WriteString("\n/verify <id> [comment] or /reject <id> <" + reasonList() + ">")
	}
	return b.String()
}

// FormatActivity formats one bookmarks tab.
func FormatActivity(tab view.ActivityTab, list []model.Insight, counts view.ActivityCounts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bookmarked %d | Liked %d | Disliked %d | Flagged %d\n",
		counts.Bookmarked, counts.Liked, counts.Disliked, counts.Flagged)
	if len(list) == 0 {
		fmt.Fprintf(&b, "\nNo %s insights yet.", tab)
		return b.String()
	}
	for _, ins := range list {
		fmt.Fprintf(&b, "\n%s [%s] %s\n", ins.ID, ins.Impact, ins.Title)
	}
	return b.String()
}

// FormatSearch formats global search results and completions.
func FormatSearch(query string, results []view.SearchResult, suggestions []string) string {
	var b strings.Builder
	if len(results) == 0 {
		fmt.Fprintf(&b, "No results for %q.", query)
	} else {
		fmt.Fprintf(&b, "Results for %q:\n", query)
		for i, r := range results {
			fmt.Fprintf(&b, "\n%d. %s: %s\n   %s\n   %s\n", i+1, r.Type, r.Title, r.Subtitle, r.Href)
		}
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(&b, "\nTry: %s", strings.Join(suggestions, ", "))
	}
	return b.String()
}

// FormatHistory formats recent searches.
func FormatHistory(items []model.SearchHistoryItem, now time.Time) string {
	if len(items) == 0 {
		return "No recent searches."
	}
	var b strings.Builder
	b.WriteString("Recent searches:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "\n%q: %s %s (%s)\n   %s\n", it.Query, it.Type, it.Title,
			view.TimeAgo(time.UnixMilli(it.Timestamp), now), it.Href)
	}
	return b.String()
}

// FormatBattlecard formats a competitor's battlecard.
func FormatBattlecard(name string, bc model.Battlecard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Battlecard: %s (updated %s)\n", name, view.FormatDate(bc.UpdatedAt))
	fmt.Fprintf(&b, "\n%s\n", bc.Positioning)
	fmt.Fprintf(&b, "\nWin rate: %d%%\n%s\n", bc.WinRate, bc.WinRateRationale)
	writeList(&b, "Our advantages", bc.OurAdvantages)
	writeList(&b, "Their advantages", bc.TheirAdvantages)
	writeList(&b, "Key differentiators", bc.KeyDifferentiators)
	if bc.PricingComparison != "" {
		fmt.Fprintf(&b, "\nPricing:\n%s\n", bc.PricingComparison)
	}
	if len(bc.ObjectionHandling) > 0 {
		b.WriteString("\nObjections:\n")
		for _, o := range bc.ObjectionHandling {
			fmt.Fprintf(&b, "  Q: %s\n  A: %s\n", o.Objection, o.Response)
		}
	}
	writeList(&b, "Common scenarios", bc.CommonScenarios)
	return b.String()
}

// FormatSynthesis formats one step of the synthesis sequence.
func FormatSynthesis(st synthesis.State) string {
	switch st.Phase {
	case synthesis.Scanning:
		return fmt.Sprintf("Scanning sources... %d%%", st.Progress)
	case synthesis.Detecting:
		return fmt.Sprintf("Detecting signals... %d found", st.Detected)
	case synthesis.Synthesizing:
		return fmt.Sprintf("Synthesizing insights... %d%%", st.Progress)
	case synthesis.Complete:
		return fmt.Sprintf("Synthesis complete: %d signals processed.", st.Detected)
	default:
		return "Synthesis idle."
	}
}
