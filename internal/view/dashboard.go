package view

import (
	"cmp"
	"slices"
	"time"

	"compintel/internal/model"
)

const dashboardLimit = 5

// Threat matrix midpoints: a competitor with more than half the threat
// score range sits in the upper half, one with at least ten signals in the
// last 30 days in the right half.
const (
	impactMidpoint   = 50
	activityMidpoint = 10
)

// Quadrant is a cell of the threat matrix.
type Quadrant string

// Threat matrix quadrants, from most to least urgent.
const (
	QuadrantCritical Quadrant = "Critical"
	QuadrantMonitor  Quadrant = "Monitor"
	QuadrantWatch    Quadrant = "Watch"
	QuadrantLow      Quadrant = "Low"
)

// Quadrants lists the quadrants in display order.
var Quadrants = []Quadrant{QuadrantCritical, QuadrantMonitor, QuadrantWatch, QuadrantLow}

// ThreatPoint places a competitor on the threat matrix: impact is the threat
// score and activity the number of signals seen in the last 30 days, taken
// from the competitor record or, when the record has none, counted from the
// signals.
type ThreatPoint struct {
	Competitor model.Competitor
	Activity   int
	Quadrant   Quadrant
}

// ThreatMatrix places every competitor, highest threat score first.
func ThreatMatrix(comps []model.Competitor, sigs []model.Signal, now time.Time) []ThreatPoint {
	byComp := make(map[string][]model.Signal)
	for _, s := range sigs {
		byComp[s.CompetitorID] = append(byComp[s.CompetitorID], s)
	}
	out := make([]ThreatPoint, 0, len(comps))
	for _, c := range comps {
		activity := c.SignalCount30d
		if activity == 0 {
			activity = SignalCount30d(byComp[c.ID], now)
		}
		out = append(out, ThreatPoint{Competitor: c, Activity: activity, Quadrant: quadrant(c.ThreatScore, activity)})
	}
	slices.SortStableFunc(out, func(a, b ThreatPoint) int {
		return cmp.Compare(b.Competitor.ThreatScore, a.Competitor.ThreatScore)
	})
	return out
}

func quadrant(score, activity int) Quadrant {
	high := score > impactMidpoint
	active := activity >= activityMidpoint
	switch {
	case high && active:
		return QuadrantCritical
	case high:
		return QuadrantMonitor
	case active:
		return QuadrantWatch
	default:
		return QuadrantLow
	}
}

// Dashboard is the landing page.
type Dashboard struct {
	KPIs           []model.KPI
	Threats        []ThreatPoint
	RecentSignals  []model.Signal
	LatestInsights []model.Insight
	Insights       InsightStats
	Review         ReviewCounts
}

// BuildDashboard assembles the landing page from the full corpus.
func BuildDashboard(kpis []model.KPI, comps []model.Competitor, sigs []model.Signal, ins []model.Insight,
	reviews map[string]model.ReviewAction, now time.Time) Dashboard {
	latest := append([]model.Insight(nil), ins...)
	SortInsights(latest, SortRecent)
	if len(latest) > dashboardLimit {
		latest = latest[:dashboardLimit]
	}
	return Dashboard{
		KPIs:           kpis,
		Threats:        ThreatMatrix(comps, sigs, now),
		RecentSignals:  RecentSignals(sigs, now, dashboardLimit),
		LatestInsights: latest,
		Insights:       CountInsights(ins, now),
		Review:         CountReview(ins, reviews),
	}
}
