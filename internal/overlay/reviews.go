package overlay

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"compintel/internal/model"
)

// Review errors.
var (
	ErrInvalidDecision = errors.New("invalid review decision")
	ErrInvalidReason   = errors.New("invalid rejection reason")
)

// ReviewExtra carries the optional parts of a review decision. Comment is
// kept for verifications and Reason is required for rejections.
type ReviewExtra struct {
	Comment string
	Reason  model.RejectionReason
}

// ReviewActions returns the latest decision per insight id.
func (s *Store) ReviewActions(ctx context.Context) map[string]model.ReviewAction {
	m := load(ctx, s, KeyReviewActions, map[string]model.ReviewAction{})
	if m == nil {
		m = map[string]model.ReviewAction{}
	}
	return m
}

// RecordReviewAction stores a decision for an insight, replacing any earlier
// one.
func (s *Store) RecordReviewAction(ctx context.Context, insightID string, decision model.ReviewDecision, actor string, extra ReviewExtra) (model.ReviewAction, error) {
	a := model.ReviewAction{Action: decision, At: s.now(), By: actor}
	switch decision {
	case model.DecisionVerified:
		a.Comment = strings.TrimSpace(extra.Comment)
	case model.DecisionRejected:
		if !slices.Contains(model.RejectionReasons, extra.Reason) {
			return model.ReviewAction{}, fmt.Errorf("%w: %q", ErrInvalidReason, extra.Reason)
		}
		a.Reason = extra.Reason
	default:
		return model.ReviewAction{}, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	all := s.ReviewActions(ctx)
	if prev, ok := all[insightID]; ok {
		s.log.Debug("replacing review action", "insight_id", insightID,
			"previous", prev.Action, "previous_by", prev.By)
	}
	all[insightID] = a
	if err := save(ctx, s, KeyReviewActions, all); err != nil {
		return model.ReviewAction{}, err
	}
	s.log.Info("review recorded", "insight_id", insightID, "action", decision, "by", actor)
	return a, nil
}
