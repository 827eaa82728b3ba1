package domain

import (
	"strings"
	"time"
)

type OutcomeKind string

const (
	OutcomeRelease OutcomeKind = "release"
	OutcomeRefund  OutcomeKind = "refund"
	OutcomeSplit   OutcomeKind = "split"
)

// Outcome is an arbitration decision over the escrowed amount. For release
// and refund the amounts are implied by the escrow; for split both shares are
// explicit and must sum to the full hold.
type Outcome struct {
	Kind             OutcomeKind `json:"kind"`
	ClientAmount     int64       `json:"client_amount"`
	FreelancerAmount int64       `json:"freelancer_amount"`
}

// Dispute is keyed by project id; at most one per project. The record is
// retained after resolution so who disputed, why, and the outcome stay
// queryable.
type Dispute struct {
	ProjectID  uint64     `json:"project_id"`
	Initiator  string     `json:"initiator"`
	Reason     string     `json:"reason"`
	OpenedAt   time.Time  `json:"opened_at"`
	Resolved   bool       `json:"resolved"`
	Outcome    *Outcome   `json:"outcome,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func ValidateDisputeReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > MaxDescriptionLen {
		return ErrInvalidInput
	}
	return nil
}

// ValidateOutcome rejects any decision that would over- or under-allocate
// the escrowed amount.
func ValidateOutcome(o Outcome, escrowed int64) error {
	switch o.Kind {
	case OutcomeRelease, OutcomeRefund:
		return nil
	case OutcomeSplit:
		if o.ClientAmount < 0 || o.FreelancerAmount < 0 {
			return ErrInvalidInput
		}
		if o.ClientAmount+o.FreelancerAmount != escrowed {
			return ErrInvalidInput
		}
		return nil
	default:
		return ErrInvalidInput
	}
}

// FavorsFreelancer reports whether the outcome awards the full hold to the
// freelancer, which is the only arbitration result that feeds the rating
// ledger.
func (o Outcome) FavorsFreelancer() bool {
	return o.Kind == OutcomeRelease
}
