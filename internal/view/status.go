package view

import (
	"time"

	"compintel/internal/model"
)

// NewWindow is how long an insight with baseline status "new" stays new.
const NewWindow = 7 * 24 * time.Hour

// IsNew reports whether an insight counts as new: its baseline status is
// "new" and it was generated within the trailing seven days.
func IsNew(ins model.Insight, now time.Time) bool {
	if ins.Status != model.StatusNew {
		return false
	}
	return !ins.GeneratedAt.Before(now.Add(-NewWindow))
}

// DisplayStatus is the new/past status shown for an insight.
func DisplayStatus(ins model.Insight, now time.Time) model.InsightStatus {
	if IsNew(ins, now) {
		return model.StatusNew
	}
	return model.StatusPast
}

// EffectiveStatus resolves an insight's verification status. A recorded
// review action always wins over the baseline value.
func EffectiveStatus(ins model.Insight, reviews map[string]model.ReviewAction) model.VerificationStatus {
	if a, ok := reviews[ins.ID]; ok {
		return model.VerificationStatus(a.Action)
	}
	return ins.VerificationStatus
}

// StatusLabel is the human label of a verification status.
func StatusLabel(s model.VerificationStatus) string {
	switch s {
	case model.VerificationVerified:
		return "Verified"
	case model.VerificationPending:
		return "Pending Review"
	case model.VerificationRejected:
		return "Rejected"
	default:
		return "Unverified"
	}
}

// ReasonLabel is the human label of a rejection reason.
func ReasonLabel(r model.RejectionReason) string {
	switch r {
	case model.ReasonInaccurate:
		return "Inaccurate information"
	case model.ReasonDuplicate:
		return "Duplicate insight"
	case model.ReasonLowRelevance:
		return "Low relevance"
	case model.ReasonOutdated:
		return "Outdated"
	default:
		return string(r)
	}
}

// Reviewer identifies who made the current verification decision.
type Reviewer struct {
	By      string
	At      time.Time
	Comment string
	Reason  model.RejectionReason
}

// ReviewerOf returns who verified or rejected an insight, preferring the
// overlay record over baseline verification data. The flag is false when
// nobody has decided yet.
func ReviewerOf(ins model.Insight, reviews map[string]model.ReviewAction) (Reviewer, bool) {
	if a, ok := reviews[ins.ID]; ok {
		return Reviewer{By: a.By, At: a.At, Comment: a.Comment, Reason: a.Reason}, true
	}
	switch ins.VerificationStatus {
	case model.VerificationVerified:
		if v := ins.Verification; v != nil {
			return Reviewer{By: v.VerifiedBy, At: v.VerifiedAt, Comment: v.VerifierComment}, true
		}
	case model.VerificationRejected:
		if ins.RejectedBy != "" && ins.RejectedAt != nil {
			return Reviewer{By: ins.RejectedBy, At: *ins.RejectedAt, Reason: ins.RejectionReason}, true
		}
	}
	return Reviewer{}, false
}
