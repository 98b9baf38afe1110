package view

import "compintel/internal/model"

// MergeComments returns the baseline comments followed by stored ones whose
// id is not already present.
func MergeComments(baseline, stored []model.Comment) []model.Comment {
	seen := make(map[string]struct{}, len(baseline)+len(stored))
	out := make([]model.Comment, 0, len(baseline)+len(stored))
	for _, list := range [][]model.Comment{baseline, stored} {
		for _, c := range list {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
