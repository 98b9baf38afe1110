package overlay

import (
	"context"

	"compintel/internal/model"
)

// InteractionPatch is a partial interaction update. Nil fields keep their
// current value. ClearFeedback removes any feedback.
type InteractionPatch struct {
	Feedback      *model.Feedback
	ClearFeedback bool
	Bookmarked    *bool
	Flagged       *bool
}

// Interactions returns every stored interaction keyed by insight id.
func (s *Store) Interactions(ctx context.Context) map[string]model.Interaction {
	m := load(ctx, s, KeyInteractions, map[string]model.Interaction{})
	if m == nil {
		m = map[string]model.Interaction{}
	}
	return m
}

// Interaction returns the interaction of one insight, or the default record
// when none is stored.
func (s *Store) Interaction(ctx context.Context, insightID string) model.Interaction {
	return s.Interactions(ctx)[insightID]
}

// UpsertInteraction merges patch into the insight's interaction, stamps it
// and persists the whole namespace.
func (s *Store) UpsertInteraction(ctx context.Context, insightID string, patch InteractionPatch) (model.Interaction, error) {
	all := s.Interactions(ctx)
	in := all[insightID]
	switch {
	case patch.ClearFeedback:
		in.Feedback = nil
	case patch.Feedback != nil:
		fb := *patch.Feedback
		in.Feedback = &fb
	}
	if patch.Bookmarked != nil {
		in.Bookmarked = *patch.Bookmarked
	}
	if patch.Flagged != nil {
		in.Flagged = *patch.Flagged
	}
	in.UpdatedAt = s.now()
	all[insightID] = in

	if err := save(ctx, s, KeyInteractions, all); err != nil {
		return model.Interaction{}, err
	}
	s.log.Debug("interaction updated", "insight_id", insightID,
		"feedback", in.FeedbackValue(), "bookmarked", in.Bookmarked, "flagged", in.Flagged)
	return in, nil
}

// SetFeedback records thumbs up or down. Giving the current feedback again
// clears it.
func (s *Store) SetFeedback(ctx context.Context, insightID string, fb model.Feedback) (model.Interaction, error) {
	cur := s.Interaction(ctx, insightID)
	if fb == model.FeedbackNone || cur.FeedbackValue() == fb {
		return s.UpsertInteraction(ctx, insightID, InteractionPatch{ClearFeedback: true})
	}
	return s.UpsertInteraction(ctx, insightID, InteractionPatch{Feedback: &fb})
}

// ToggleBookmark flips the bookmark flag.
func (s *Store) ToggleBookmark(ctx context.Context, insightID string) (model.Interaction, error) {
	v := !s.Interaction(ctx, insightID).Bookmarked
	return s.UpsertInteraction(ctx, insightID, InteractionPatch{Bookmarked: &v})
}

// ToggleFlag flips the flag for review.
func (s *Store) ToggleFlag(ctx context.Context, insightID string) (model.Interaction, error) {
	v := !s.Interaction(ctx, insightID).Flagged
	return s.UpsertInteraction(ctx, insightID, InteractionPatch{Flagged: &v})
}
