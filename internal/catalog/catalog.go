// Package catalog exposes the fixed competitive-intelligence corpus and the
// lookups views are built from.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"compintel/internal/model"
)

//go:embed catalog.yaml
var embedded []byte

// maxRelated caps the number of related insights surfaced for an insight.
const maxRelated = 3

type document struct {
	Competitors []model.Competitor `yaml:"competitors"`
	Sources     []model.Source     `yaml:"sources"`
	Signals     []model.Signal     `yaml:"signals"`
	Insights    []model.Insight    `yaml:"insights"`
	Battlecards []model.Battlecard `yaml:"battlecards"`
	KPIs        []model.KPI        `yaml:"kpis"`
}

// Catalog is an immutable, indexed view of the corpus. All lookups report
// absence with a false flag rather than an error.
type Catalog struct {
	doc document

	competitorByID   map[string]int
	competitorBySlug map[string]int
	sourceByID       map[string]int
	signalByID       map[string]int
	insightByID      map[string]int
	battlecardByComp map[string]int

	signalsByComp  map[string][]int
	insightsByComp map[string][]int
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the corpus compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("catalog: decode embedded corpus: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load decodes a corpus document from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a corpus document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Competitors, doc.Sources, doc.Signals, doc.Insights, doc.Battlecards, doc.KPIs), nil
}

// New builds a catalog from in-memory collections.
func New(competitors []model.Competitor, sources []model.Source, signals []model.Signal,
	insights []model.Insight, battlecards []model.Battlecard, kpis []model.KPI) *Catalog {
	c := &Catalog{
		doc: document{
			Competitors: competitors,
			Sources:     sources,
			Signals:     signals,
			Insights:    insights,
			Battlecards: battlecards,
			KPIs:        kpis,
		},
		competitorByID:   make(map[string]int, len(competitors)),
		competitorBySlug: make(map[string]int, len(competitors)),
		sourceByID:       make(map[string]int, len(sources)),
		signalByID:       make(map[string]int, len(signals)),
		insightByID:      make(map[string]int, len(insights)),
		battlecardByComp: make(map[string]int, len(battlecards)),
		signalsByComp:    make(map[string][]int),
		insightsByComp:   make(map[string][]int),
	}

	for i, comp := range competitors {
		c.competitorByID[comp.ID] = i
		c.competitorBySlug[comp.Slug] = i
	}
	for i, s := range sources {
		c.sourceByID[s.ID] = i
	}
	for i, s := range signals {
		c.signalByID[s.ID] = i
		c.signalsByComp[s.CompetitorID] = append(c.signalsByComp[s.CompetitorID], i)
	}
	for i, ins := range insights {
		c.insightByID[ins.ID] = i
		for _, compID := range ins.CompetitorIDs {
			c.insightsByComp[compID] = append(c.insightsByComp[compID], i)
		}
	}
	for i, b := range battlecards {
		if _, ok := c.battlecardByComp[b.CompetitorID]; !ok {
			c.battlecardByComp[b.CompetitorID] = i
		}
	}
	return c
}

// Competitors returns all competitors in declaration order.
func (c *Catalog) Competitors() []model.Competitor {
	return append([]model.Competitor(nil), c.doc.Competitors...)
}

// Sources returns all baseline sources in declaration order.
func (c *Catalog) Sources() []model.Source {
	return append([]model.Source(nil), c.doc.Sources...)
}

// Signals returns all signals in declaration order.
func (c *Catalog) Signals() []model.Signal {
	return append([]model.Signal(nil), c.doc.Signals...)
}

// Insights returns all insights in declaration order.
func (c *Catalog) Insights() []model.Insight {
	return append([]model.Insight(nil), c.doc.Insights...)
}

// Battlecards returns all battlecards in declaration order.
func (c *Catalog) Battlecards() []model.Battlecard {
	return append([]model.Battlecard(nil), c.doc.Battlecards...)
}

// KPIs returns the dashboard headline metrics.
func (c *Catalog) KPIs() []model.KPI {
	return append([]model.KPI(nil), c.doc.KPIs...)
}

// Competitor looks a competitor up by its routing slug.
func (c *Catalog) Competitor(slug string) (model.Competitor, bool) {
	i, ok := c.competitorBySlug[slug]
	if !ok {
		return model.Competitor{}, false
	}
	return c.doc.Competitors[i], true
}

// CompetitorByID looks a competitor up by id.
func (c *Catalog) CompetitorByID(id string) (model.Competitor, bool) {
	i, ok := c.competitorByID[id]
	if !ok {
		return model.Competitor{}, false
	}
	return c.doc.Competitors[i], true
}

// Source looks a baseline source up by id.
func (c *Catalog) Source(id string) (model.Source, bool) {
	i, ok := c.sourceByID[id]
	if !ok {
		return model.Source{}, false
	}
	return c.doc.Sources[i], true
}

// Signal looks a signal up by id.
func (c *Catalog) Signal(id string) (model.Signal, bool) {
	i, ok := c.signalByID[id]
	if !ok {
		return model.Signal{}, false
	}
	return c.doc.Signals[i], true
}

// Insight looks an insight up by id.
func (c *Catalog) Insight(id string) (model.Insight, bool) {
	i, ok := c.insightByID[id]
	if !ok {
		return model.Insight{}, false
	}
	return c.doc.Insights[i], true
}

// Battlecard returns the battlecard for a competitor id.
func (c *Catalog) Battlecard(competitorID string) (model.Battlecard, bool) {
	i, ok := c.battlecardByComp[competitorID]
	if !ok {
		return model.Battlecard{}, false
	}
	return c.doc.Battlecards[i], true
}

// CompetitorSignals returns the signals owned by a competitor.
func (c *Catalog) CompetitorSignals(competitorID string) []model.Signal {
	idx := c.signalsByComp[competitorID]
	out := make([]model.Signal, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.doc.Signals[i])
	}
	return out
}

// CompetitorInsights returns the insights that reference a competitor.
func (c *Catalog) CompetitorInsights(competitorID string) []model.Insight {
	idx := c.insightsByComp[competitorID]
	out := make([]model.Insight, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.doc.Insights[i])
	}
	return out
}

// RelatedInsights resolves an insight's related ids in declared order,
// dropping ids that do not resolve and keeping at most three.
func (c *Catalog) RelatedInsights(insightID string) []model.Insight {
	ins, ok := c.Insight(insightID)
	if !ok {
		return nil
	}
	var out []model.Insight
	for _, id := range ins.RelatedInsightIDs {
		rel, ok := c.Insight(id)
		if !ok {
			continue
		}
		out = append(out, rel)
		if len(out) == maxRelated {
			break
		}
	}
	return out
}

// Validate reports every dangling cross reference in the corpus.
func (c *Catalog) Validate() error {
	var errs []error
	for _, s := range c.doc.Signals {
		if _, ok := c.sourceByID[s.SourceID]; !ok {
			errs = append(errs, fmt.Errorf("signal %s: unknown source %s", s.ID, s.SourceID))
		}
		if _, ok := c.competitorByID[s.CompetitorID]; !ok {
			errs = append(errs, fmt.Errorf("signal %s: unknown competitor %s", s.ID, s.CompetitorID))
		}
	}
	for _, ins := range c.doc.Insights {
		for _, id := range ins.CompetitorIDs {
			if _, ok := c.competitorByID[id]; !ok {
				errs = append(errs, fmt.Errorf("insight %s: unknown competitor %s", ins.ID, id))
			}
		}
		for _, id := range ins.SourceIDs {
			if _, ok := c.sourceByID[id]; !ok {
				errs = append(errs, fmt.Errorf("insight %s: unknown source %s", ins.ID, id))
			}
		}
		for _, id := range ins.SignalIDs {
			if _, ok := c.signalByID[id]; !ok {
				errs = append(errs, fmt.Errorf("insight %s: unknown signal %s", ins.ID, id))
			}
		}
	}
	return errors.Join(errs...)
}
