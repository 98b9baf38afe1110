package view

import (
	"time"

	"compintel/internal/catalog"
	"compintel/internal/model"
)

// Composer renders every view from one catalog, one overlay snapshot and one
// clock reading, so that all views built from it agree with each other.
type Composer struct {
	cat *catalog.Catalog
	ov  Overlay
	now time.Time
}

// NewComposer binds a catalog and an overlay snapshot at a fixed instant.
func NewComposer(cat *catalog.Catalog, ov Overlay, now time.Time) *Composer {
	return &Composer{cat: cat, ov: ov, now: now}
}

// Now is the instant the composer evaluates time-relative rules at.
func (c *Composer) Now() time.Time { return c.now }

// Overlay returns the snapshot the composer was built with.
func (c *Composer) Overlay() Overlay { return c.ov }

// Dashboard builds the landing page.
func (c *Composer) Dashboard() Dashboard {
	return BuildDashboard(c.cat.KPIs(), c.cat.Competitors(), c.cat.Signals(), c.cat.Insights(), c.ov.Reviews, c.now)
}

// Insights lists insights.
func (c *Composer) Insights(f InsightFilter, mode SortMode) ([]model.Insight, Summary) {
	return Insights(c.cat.Insights(), f, mode, c.ov.Reviews, c.now)
}

// InsightStats counts insights.
func (c *Composer) InsightStats() InsightStats {
	return CountInsights(c.cat.Insights(), c.now)
}

// Status is the effective verification status of an insight.
func (c *Composer) Status(ins model.Insight) model.VerificationStatus {
	return EffectiveStatus(ins, c.ov.Reviews)
}

// IsNew reports whether an insight is currently new.
func (c *Composer) IsNew(ins model.Insight) bool {
	return IsNew(ins, c.now)
}

// InsightDetail is the single-insight page.
type InsightDetail struct {
	Insight       model.Insight
	Status        model.VerificationStatus
	New           bool
	Reviewer      Reviewer
	Reviewed      bool
	Competitors   []model.Competitor
	Signals       []model.Signal
	SignalSources map[string]model.Source
	Sources       []model.Source
	Related       []model.Insight
	Comments      []model.Comment
	Interaction   model.Interaction
}

// Insight builds the detail page of an insight. stored holds the comments
// kept in the overlay for it. Cross references that do not resolve are left
// out.
func (c *Composer) Insight(id string, stored []model.Comment) (InsightDetail, bool) {
	ins, ok := c.cat.Insight(id)
	if !ok {
		return InsightDetail{}, false
	}
	srcs := c.Sources()
	d := InsightDetail{
		Insight:     ins,
		Status:      EffectiveStatus(ins, c.ov.Reviews),
		New:         IsNew(ins, c.now),
		Sources:     ResolveSources(ins.SourceIDs, srcs),
		Related:     c.cat.RelatedInsights(id),
		Comments:    MergeComments(ins.Comments, stored),
		Interaction: c.ov.Interactions[id],
	}
	d.Reviewer, d.Reviewed = ReviewerOf(ins, c.ov.Reviews)
	for _, cid := range ins.CompetitorIDs {
		if comp, ok := c.cat.CompetitorByID(cid); ok {
			d.Competitors = append(d.Competitors, comp)
		}
	}
	for _, sid := range ins.SignalIDs {
		if sig, ok := c.cat.Signal(sid); ok {
			d.Signals = append(d.Signals, sig)
		}
	}
	d.SignalSources = SignalSources(d.Signals, srcs)
	return d, true
}

// Competitors lists competitors.
func (c *Composer) Competitors(f CompetitorFilter) ([]model.Competitor, Summary, CompetitorStats) {
	all := c.cat.Competitors()
	list, sum := Competitors(all, f)
	return list, sum, CountCompetitors(all)
}

// Competitor builds a competitor page by slug.
func (c *Composer) Competitor(slug string, q CompetitorQuery) (CompetitorView, bool) {
	comp, ok := c.cat.Competitor(slug)
	if !ok {
		return CompetitorView{}, false
	}
	return Competitor(comp, c.cat.CompetitorSignals(comp.ID), c.cat.CompetitorInsights(comp.ID),
		c.Sources(), c.ov.Reviews, q, c.now), true
}

// CompetitorRefs lists baseline and user-added competitors.
func (c *Composer) CompetitorRefs() []model.CompetitorRef {
	return CompetitorRefs(c.cat.Competitors(), c.ov.UserCompetitors)
}

// Sources is the effective source set.
func (c *Composer) Sources() []model.Source {
	return EffectiveSources(c.cat.Sources(), c.ov)
}

// SourceList filters and sorts the effective source set.
func (c *Composer) SourceList(f SourceFilter) ([]model.Source, Summary, SourceStats) {
	all := c.Sources()
	list, sum := Sources(all, f)
	return list, sum, CountSources(all)
}

// Source looks a source up in the effective set.
func (c *Composer) Source(id string) (model.Source, bool) {
	for _, s := range c.Sources() {
		if s.ID == id {
			return s, true
		}
	}
	return model.Source{}, false
}

// ReviewQueue lists one review tab together with the counts of every tab.
func (c *Composer) ReviewQueue(tab ReviewTab, f ReviewFilter, order ReviewSort) ([]model.Insight, Summary, ReviewCounts) {
	all := c.cat.Insights()
	list, sum := ReviewQueue(all, tab, f, order, c.ov.Reviews)
	return list, sum, CountReview(all, c.ov.Reviews)
}

// Activity lists one bookmarks tab together with the counts of every tab.
func (c *Composer) Activity(tab ActivityTab) ([]model.Insight, ActivityCounts) {
	return Activity(c.cat.Insights(), tab, c.ov.Interactions), CountActivity(c.ov.Interactions)
}

// Search runs global search over the catalog.
func (c *Composer) Search(query string, scope SearchScope) []SearchResult {
	return Search(Corpus{
		Competitors: c.cat.Competitors(),
		Insights:    c.cat.Insights(),
		Signals:     c.cat.Signals(),
	}, query, scope)
}

// Autocomplete suggests completions for a partial query.
func (c *Composer) Autocomplete(query string) []string {
	return Autocomplete(c.cat.Competitors(), query)
}
