package view

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"compintel/internal/model"
)

// SearchScope limits global search to one record kind.
type SearchScope string

// Search scopes.
const (
	ScopeAll         SearchScope = "all"
	ScopeCompetitors SearchScope = "competitors"
	ScopeInsights    SearchScope = "insights"
	ScopeSignals     SearchScope = "signals"
)

// ParseScope reports whether s names a scope.
func ParseScope(s string) (SearchScope, bool) {
	switch sc := SearchScope(s); sc {
	case ScopeAll, ScopeCompetitors, ScopeInsights, ScopeSignals:
		return sc, true
	}
	return "", false
}

const (
	maxSearchResults = 8
	maxSuggestions   = 4
	minSuggestLen    = 2
)

// CommonTerms are offered as completions next to competitor names.
var CommonTerms = []string{"pricing", "funding", "partnership", "product", "hiring", "technical", "AI", "GPU", "cloud", "enterprise"}

// SearchResult is one hit of the global search.
type SearchResult struct {
	Type     string
	Title    string
	Subtitle string
	Href     string
}

// Corpus is the record set global search runs over.
type Corpus struct {
	Competitors []model.Competitor
	Insights    []model.Insight
	Signals     []model.Signal
}

// Search runs a case-insensitive substring search across competitors,
// insights and signals in that order, returning at most eight hits.
func Search(c Corpus, query string, scope SearchScope) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	in := func(s SearchScope) bool { return scope == ScopeAll || scope == "" || scope == s }
	has := func(text string) bool { return strings.Contains(strings.ToLower(text), q) }

	var out []SearchResult
	if in(ScopeCompetitors) {
		for _, comp := range c.Competitors {
			if has(competitorText(comp)) {
				out = append(out, SearchResult{
					Type:     "Competitor",
					Title:    comp.Name,
					Subtitle: string(comp.Type) + " competitor",
					Href:     "/competitors/" + comp.Slug,
				})
			}
		}
	}
	if in(ScopeInsights) {
		for _, ins := range c.Insights {
			if has(ins.Title) || has(ins.Synthesis) || has(string(ins.Category)) {
				out = append(out, SearchResult{
					Type:     "Insight",
					Title:    ins.Title,
					Subtitle: string(ins.Category),
					Href:     "/insights/" + ins.ID,
				})
			}
		}
	}
	if in(ScopeSignals) {
		slugs := make(map[string]string, len(c.Competitors))
		for _, comp := range c.Competitors {
			slugs[comp.ID] = comp.Slug
		}
		for _, s := range c.Signals {
			if has(s.Title) || has(s.Summary) || has(string(s.Category)) {
				slug, ok := slugs[s.CompetitorID]
				if !ok {
					slug = s.CompetitorID
				}
				out = append(out, SearchResult{
					Type:     "Signal",
					Title:    s.Title,
					Subtitle: string(s.Category),
					Href:     fmt.Sprintf("/competitors/%s?tab=signals&signal=%s", slug, s.ID),
				})
			}
		}
	}
	if len(out) > maxSearchResults {
		out = out[:maxSearchResults]
	}
	return out
}

// Autocomplete suggests competitor names, then common terms, that start with
// the query. Queries shorter than two characters get no suggestions.
func Autocomplete(competitors []model.Competitor, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < minSuggestLen {
		return nil
	}
	var out []string
	add := func(s string) {
		if strings.HasPrefix(strings.ToLower(s), q) && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	for _, c := range competitors {
		add(c.Name)
	}
	for _, t := range CommonTerms {
		add(t)
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
