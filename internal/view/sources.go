package view

import (
	"compintel/internal/model"
)

// SourceStats are the header counts of the sources page.
type SourceStats struct {
	Total    int
	Verified int
}

// EffectiveSources merges baseline sources with the user overlay: baseline
// sources not deleted, then user-added sources not deleted, each with any
// stored patch applied. User-added sources carry the UserAdded flag.
func EffectiveSources(baseline []model.Source, ov Overlay) []model.Source {
	deleted := make(map[string]struct{}, len(ov.DeletedSources))
	for _, id := range ov.DeletedSources {
		deleted[id] = struct{}{}
	}

	out := make([]model.Source, 0, len(baseline)+len(ov.UserSources))
	add := func(s model.Source) {
		if _, gone := deleted[s.ID]; gone {
			return
		}
		if p, ok := ov.SourceEdits[s.ID]; ok {
			s = p.Apply(s)
		}
		out = append(out, s)
	}
	for _, s := range baseline {
		add(s)
	}
	for _, s := range ov.UserSources {
		s.UserAdded = true
		add(s)
	}
	return out
}

// CountSources counts sources and those marked verified.
func CountSources(srcs []model.Source) SourceStats {
	st := SourceStats{Total: len(srcs)}
	for _, s := range srcs {
		if s.Reliability == model.ReliabilityVerified {
			st.Verified++
		}
	}
	return st
}

// Sources filters an effective source list and orders it newest scrape first.
func Sources(all []model.Source, f SourceFilter) ([]model.Source, Summary) {
	out := make([]model.Source, 0, len(all))
	for _, s := range all {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	SortSources(out)
	return out, Summary{Shown: len(out), Total: len(all)}
}

// ResolveSources looks ids up in an effective source list, keeping the id
// order and silently omitting ids that do not resolve.
func ResolveSources(ids []string, srcs []model.Source) []model.Source {
	byID := make(map[string]model.Source, len(srcs))
	for _, s := range srcs {
		byID[s.ID] = s
	}
	out := make([]model.Source, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
