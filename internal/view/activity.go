package view

import (
	"fmt"

	"compintel/internal/model"
)

// ActivityTab selects a partition of the bookmarks page.
type ActivityTab string

// Bookmarks page tabs.
const (
	TabBookmarked ActivityTab = "bookmarked"
	TabLiked      ActivityTab = "liked"
	TabDisliked   ActivityTab = "disliked"
	TabFlagged    ActivityTab = "flagged"
)

// ParseActivityTab validates a tab token. The empty string means
// TabBookmarked.
func ParseActivityTab(s string) (ActivityTab, error) {
	switch t := ActivityTab(s); t {
	case "":
		return TabBookmarked, nil
	case TabBookmarked, TabLiked, TabDisliked, TabFlagged:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
	}
}

func (t ActivityTab) match(in model.Interaction) bool {
	switch t {
	case TabBookmarked:
		return in.Bookmarked
	case TabLiked:
		return in.FeedbackValue() == model.FeedbackUp
	case TabDisliked:
		return in.FeedbackValue() == model.FeedbackDown
	case TabFlagged:
		return in.Flagged
	}
	return false
}

// ActivityCounts sizes every bookmarks tab.
type ActivityCounts struct {
	Bookmarked int
	Liked      int
	Disliked   int
	Flagged    int
}

// CountActivity sizes every tab over all recorded interactions, including
// ones whose insight no longer resolves.
func CountActivity(interactions map[string]model.Interaction) ActivityCounts {
	var c ActivityCounts
	for _, in := range interactions {
		if TabBookmarked.match(in) {
			c.Bookmarked++
		}
		if TabLiked.match(in) {
			c.Liked++
		}
		if TabDisliked.match(in) {
			c.Disliked++
		}
		if TabFlagged.match(in) {
			c.Flagged++
		}
	}
	return c
}

// Activity lists the insights in a tab in catalog order.
func Activity(all []model.Insight, tab ActivityTab, interactions map[string]model.Interaction) []model.Insight {
	var out []model.Insight
	for _, ins := range all {
		if in, ok := interactions[ins.ID]; ok && tab.match(in) {
			out = append(out, ins)
		}
	}
	return out
}
