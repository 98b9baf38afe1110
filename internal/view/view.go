// Package view computes what each screen shows: it merges the catalog with
// the user overlay, applies filters and sort orders, and derives counts.
//
// Every function is pure. Callers pass the current time explicitly so that
// "new", date windows and trends agree across views rendered together.
package view

import (
	"fmt"
	"time"

	"compintel/internal/model"
)

// Overlay is the user state loaded once per view and merged over the catalog.
type Overlay struct {
	Interactions    map[string]model.Interaction
	Reviews         map[string]model.ReviewAction
	UserSources     []model.Source
	SourceEdits     map[string]model.SourcePatch
	DeletedSources  []string
	UserCompetitors []model.CompetitorRef
}

// Summary is an "N of M shown" pair. Total is always taken from the
// unfiltered effective set.
type Summary struct {
	Shown int
	Total int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d of %d", s.Shown, s.Total)
}

// Filtered reports whether some records were hidden.
func (s Summary) Filtered() bool {
	return s.Shown != s.Total
}

// floorUnits divides d by unit rounding toward negative infinity, so that
// timestamps slightly in the future land in the previous bucket.
func floorUnits(d, unit time.Duration) int64 {
	q := d / unit
	if d%unit < 0 {
		q--
	}
	return int64(q)
}
