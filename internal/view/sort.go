package view

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"compintel/internal/model"
)

// ErrUnknownSort is returned for a sort token outside the supported set.
var ErrUnknownSort = errors.New("unknown sort order")

// SortMode orders insight and signal lists.
type SortMode string

// Supported sort modes.
const (
	SortRelevant SortMode = "relevant"
	SortRecent   SortMode = "recent"
)

// ParseSort validates a sort token. The empty string means SortRelevant.
func ParseSort(s string) (SortMode, error) {
	switch m := SortMode(s); m {
	case "":
		return SortRelevant, nil
	case SortRelevant, SortRecent:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
}

// ImpactRank maps impact to 3/2/1, unknown values to 0.
func ImpactRank(i model.Impact) int {
	switch i {
	case model.ImpactHigh:
		return 3
	case model.ImpactMedium:
		return 2
	case model.ImpactLow:
		return 1
	}
	return 0
}

// StrengthRank maps signal strength to 3/2/1, unknown values to 0.
func StrengthRank(s model.Strength) int {
	switch s {
	case model.StrengthStrong:
		return 3
	case model.StrengthModerate:
		return 2
	case model.StrengthWeak:
		return 1
	}
	return 0
}

// newestFirst orders timestamps descending.
func newestFirst(a, b time.Time) int {
	return b.Compare(a)
}

// SortInsights orders insights in place. Relevant sorts by impact then by
// generation time, recent by generation time alone; both newest first.
// Ties keep their input order.
func SortInsights(ins []model.Insight, mode SortMode) {
	slices.SortStableFunc(ins, func(a, b model.Insight) int {
		if mode != SortRecent {
			if c := cmp.Compare(ImpactRank(b.Impact), ImpactRank(a.Impact)); c != 0 {
				return c
			}
		}
		return newestFirst(a.GeneratedAt, b.GeneratedAt)
	})
}

// SortSignals orders signals in place, by strength then detection time for
// relevant and by detection time for recent.
func SortSignals(sigs []model.Signal, mode SortMode) {
	slices.SortStableFunc(sigs, func(a, b model.Signal) int {
		if mode != SortRecent {
			if c := cmp.Compare(StrengthRank(b.Strength), StrengthRank(a.Strength)); c != 0 {
				return c
			}
		}
		return newestFirst(a.DetectedAt, b.DetectedAt)
	})
}

// SortSources orders sources by scrape time, newest first.
func SortSources(srcs []model.Source) {
	slices.SortStableFunc(srcs, func(a, b model.Source) int {
		return newestFirst(a.ScrapedAt, b.ScrapedAt)
	})
}
