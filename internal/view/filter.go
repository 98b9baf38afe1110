package view

import (
	"slices"
	"strings"
	"time"

	"compintel/internal/model"
)

// InsightFilter narrows an insight list. Empty fields do not constrain;
// set fields are combined with AND.
type InsightFilter struct {
	Search       string
	Window       Window
	Competitor   string
	Category     model.Category
	Impact       model.Impact
	Status       model.InsightStatus
	Verification model.VerificationStatus
}

// Active reports whether any field is set.
func (f InsightFilter) Active() bool {
	return f != InsightFilter{}
}

// Match checks an insight against the filter. Status compares the derived
// new/past value and Verification compares the effective status.
func (f InsightFilter) Match(ins model.Insight, reviews map[string]model.ReviewAction, now time.Time) bool {
	if !containsFold(ins.Title+" "+ins.Synthesis, f.Search) {
		return false
	}
	if !f.Window.Contains(ins.GeneratedAt, now) {
		return false
	}
	if f.Competitor != "" && !slices.Contains(ins.CompetitorIDs, f.Competitor) {
		return false
	}
	if f.Category != "" && ins.Category != f.Category {
		return false
	}
	if f.Impact != "" && ins.Impact != f.Impact {
		return false
	}
	if f.Status != "" && DisplayStatus(ins, now) != f.Status {
		return false
	}
	if f.Verification != "" && EffectiveStatus(ins, reviews) != f.Verification {
		return false
	}
	return true
}

// SignalFilter narrows a signal list.
type SignalFilter struct {
	Window     Window
	Category   model.Category
	Strength   model.Strength
	Competitor string
}

// Active reports whether any field is set.
func (f SignalFilter) Active() bool {
	return f != SignalFilter{}
}

// Match checks a signal against the filter.
func (f SignalFilter) Match(sig model.Signal, now time.Time) bool {
	if !f.Window.Contains(sig.DetectedAt, now) {
		return false
	}
	if f.Category != "" && sig.Category != f.Category {
		return false
	}
	if f.Strength != "" && sig.Strength != f.Strength {
		return false
	}
	if f.Competitor != "" && sig.CompetitorID != f.Competitor {
		return false
	}
	return true
}

// SourceFilter narrows a source list. Search looks at the title only.
type SourceFilter struct {
	Search     string
	Type       model.SourceType
	Competitor string
}

// Active reports whether any field is set.
func (f SourceFilter) Active() bool {
	return f != SourceFilter{}
}

// Match checks a source against the filter.
func (f SourceFilter) Match(src model.Source) bool {
	if !containsFold(src.Title, f.Search) {
		return false
	}
	if f.Type != "" && src.Type != f.Type {
		return false
	}
	if f.Competitor != "" && src.CompetitorID != f.Competitor {
		return false
	}
	return true
}

// CompetitorFilter narrows the competitor list.
type CompetitorFilter struct {
	Search string
	Threat model.ThreatLevel
	Type   model.CompetitorType
}

// Active reports whether any field is set.
func (f CompetitorFilter) Active() bool {
	return f != CompetitorFilter{}
}

// Match checks a competitor against the filter. Search covers the name,
// description and product names.
func (f CompetitorFilter) Match(c model.Competitor) bool {
	if !containsFold(competitorText(c), f.Search) {
		return false
	}
	if f.Threat != "" && c.ThreatLevel != f.Threat {
		return false
	}
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	return true
}

func competitorText(c model.Competitor) string {
	return c.Name + " " + c.Description + " " + strings.Join(c.KeyProducts, " ")
}

// containsFold is a case-insensitive substring test. An empty needle matches.
func containsFold(text, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}
