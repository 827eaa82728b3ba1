package application

import (
	"context"
	"strings"

	"github.com/worklane/escrow-engine/internal/domain"
)

// DisputeProject opens a dispute on an IN_PROGRESS or SUBMITTED project.
// Either party may initiate; the project parks in DISPUTED until an
// arbitrator resolves it.
func (s *Service) DisputeProject(ctx context.Context, actor Actor, projectID uint64, reason string) (domain.Dispute, error) {
	reason = strings.TrimSpace(reason)
	if err := domain.ValidateDisputeReason(reason); err != nil {
		return domain.Dispute{}, err
	}
	var dispute domain.Dispute
	project, err := s.transition(ctx, actor, projectID, domain.ActionDispute, reason, func(ctx context.Context, project *domain.Project, _ domain.EscrowAccount) error {
		now := s.nowFn()
		dispute = domain.Dispute{
			ProjectID: project.ID,
			Initiator: actor.SubjectID,
			Reason:    reason,
			OpenedAt:  now,
		}
		if err := s.disputes.Put(ctx, dispute); err != nil {
			return err
		}
		project.Status = domain.StatusDisputed
		_ = s.enqueueProjectDisputed(ctx, actor, dispute)
		return nil
	}, "")
	if err != nil {
		return domain.Dispute{}, err
	}
	// a cached idempotent replay short-circuits before apply runs, so the
	// captured dispute is empty; serve the stored record instead
	if dispute.ProjectID == 0 {
		return s.disputes.GetByProjectID(ctx, project.ID)
	}
	return dispute, nil
}

// ResolveDispute applies an arbitration outcome to a DISPUTED project:
// exactly one ledger movement (release, refund, or split summing to the full
// hold), project to COMPLETED, dispute marked resolved but retained for
// audit.
func (s *Service) ResolveDispute(ctx context.Context, actor Actor, projectID uint64, input ResolveDisputeInput) (domain.Project, error) {
	outcome, err := parseOutcome(input)
	if err != nil {
		return domain.Project{}, err
	}
	return s.transition(ctx, actor, projectID, domain.ActionResolve, outcome, func(ctx context.Context, project *domain.Project, account domain.EscrowAccount) error {
		if err := domain.ValidateOutcome(outcome, account.Amount); err != nil {
			return err
		}
		dispute, err := s.disputes.GetByProjectID(ctx, project.ID)
		if err != nil {
			return err
		}
		if dispute.Resolved {
			return domain.ErrConflict
		}
		if err := s.settleEscrow(ctx, account, outcome, *project); err != nil {
			return err
		}
		now := s.nowFn()
		dispute.Resolved = true
		dispute.Outcome = &outcome
		dispute.ResolvedBy = actor.SubjectID
		dispute.ResolvedAt = &now
		if err := s.disputes.Put(ctx, dispute); err != nil {
			return err
		}
		project.Status = domain.StatusCompleted
		project.EscrowID = ""
		if outcome.FavorsFreelancer() {
			s.recordRating(ctx, actor, project.Freelancer, s.cfg.DefaultRating)
		}
		_ = s.publishDisputeResolved(ctx, actor, *project, dispute)
		return nil
	}, "")
}

func parseOutcome(input ResolveDisputeInput) (domain.Outcome, error) {
	switch domain.OutcomeKind(strings.TrimSpace(input.Outcome)) {
	case domain.OutcomeRelease:
		return domain.Outcome{Kind: domain.OutcomeRelease}, nil
	case domain.OutcomeRefund:
		return domain.Outcome{Kind: domain.OutcomeRefund}, nil
	case domain.OutcomeSplit:
		return domain.Outcome{
			Kind:             domain.OutcomeSplit,
			ClientAmount:     input.ClientAmount,
			FreelancerAmount: input.FreelancerAmount,
		}, nil
	default:
		return domain.Outcome{}, domain.ErrInvalidInput
	}
}
