package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/worklane/escrow-engine/internal/domain"
)

// CreateProject validates the request, allocates the next project id, locks
// the budget in escrow, and registers the project as OPEN. Arguments are
// validated before the counter is consumed so a rejected creation never
// advances it.
func (s *Service) CreateProject(ctx context.Context, actor Actor, input CreateProjectInput) (domain.Project, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Project{}, domain.ErrUnauthorized
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Freelancer = strings.TrimSpace(input.Freelancer)
	if err := domain.ValidateProjectInput(input.Title, input.Description, input.Budget, input.Deadline, input.Freelancer); err != nil {
		return domain.Project{}, err
	}
	if input.Freelancer == actor.SubjectID {
		return domain.Project{}, domain.ErrInvalidInput
	}
	requestHash := hashPayload(input)
	if cached, ok, err := s.getIdempotentProject(ctx, actor, requestHash); err != nil {
		return domain.Project{}, err
	} else if ok {
		return cached, nil
	}

	id, err := s.projects.NextID(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	escrowRef, err := s.ledger.Lock(ctx, input.Budget, actor.SubjectID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("%w: lock: %v", domain.ErrLedgerFailure, err)
	}

	now := s.nowFn()
	project := domain.Project{
		ID:          id,
		Client:      actor.SubjectID,
		Freelancer:  input.Freelancer,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Deadline:    input.Deadline.UTC(),
		Status:      domain.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	account := domain.EscrowAccount{
		ProjectID: id,
		EscrowRef: escrowRef,
		Amount:    input.Budget,
		LockedAt:  now,
	}
	if err := s.escrows.Put(ctx, account); err != nil {
		_ = s.ledger.Refund(ctx, escrowRef, actor.SubjectID)
		return domain.Project{}, err
	}
	if err := s.projects.Put(ctx, project); err != nil {
		_ = s.ledger.Refund(ctx, escrowRef, actor.SubjectID)
		return domain.Project{}, err
	}
	_ = s.enqueueProjectCreated(ctx, actor, project)
	if err := s.completeIdempotent(ctx, actor.IdempotencyKey, 201, project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

// AcceptProject moves an OPEN project to IN_PROGRESS. Only the assigned
// freelancer may accept; accepting surfaces the escrow reference on the
// project record for the working phase.
func (s *Service) AcceptProject(ctx context.Context, actor Actor, projectID uint64) (domain.Project, error) {
	return s.transition(ctx, actor, projectID, domain.ActionAccept, nil, func(ctx context.Context, project *domain.Project, account domain.EscrowAccount) error {
		project.Status = domain.StatusInProgress
		project.EscrowID = account.EscrowRef
		return nil
	}, domain.EventProjectAccepted)
}

// SubmitWork moves IN_PROGRESS to SUBMITTED.
func (s *Service) SubmitWork(ctx context.Context, actor Actor, projectID uint64) (domain.Project, error) {
	return s.transition(ctx, actor, projectID, domain.ActionSubmit, nil, func(_ context.Context, project *domain.Project, _ domain.EscrowAccount) error {
		project.Status = domain.StatusSubmitted
		return nil
	}, domain.EventWorkSubmitted)
}

// ApproveWork releases the escrow to the freelancer, completes the project,
// and records the freelancer's rating. A nil rating records the configured
// default score.
func (s *Service) ApproveWork(ctx context.Context, actor Actor, projectID uint64, rating *int) (domain.Project, error) {
	score := s.cfg.DefaultRating
	if rating != nil {
		score = *rating
	}
	if err := domain.ValidateRating(score); err != nil {
		return domain.Project{}, err
	}
	return s.transition(ctx, actor, projectID, domain.ActionApprove, score, func(ctx context.Context, project *domain.Project, account domain.EscrowAccount) error {
		if err := s.settleEscrow(ctx, account, domain.Outcome{Kind: domain.OutcomeRelease}, *project); err != nil {
			return err
		}
		project.Status = domain.StatusCompleted
		project.EscrowID = ""
		s.recordRating(ctx, actor, project.Freelancer, score)
		return nil
	}, domain.EventWorkApproved)
}

// CancelProject refunds the escrow to the client and terminates an OPEN
// project.
func (s *Service) CancelProject(ctx context.Context, actor Actor, projectID uint64) (domain.Project, error) {
	return s.transition(ctx, actor, projectID, domain.ActionCancel, nil, func(ctx context.Context, project *domain.Project, account domain.EscrowAccount) error {
		if err := s.settleEscrow(ctx, account, domain.Outcome{Kind: domain.OutcomeRefund}, *project); err != nil {
			return err
		}
		project.Status = domain.StatusCancelled
		project.EscrowID = ""
		return nil
	}, domain.EventProjectCancelled)
}

type transitionFn func(ctx context.Context, project *domain.Project, account domain.EscrowAccount) error

// transition is the shared path for every role-gated action on an existing
// project: serialize on the project id, resolve the caller's role, check the
// role table, check the state table, apply, and persist the full replacement
// record. The ledger call inside apply happens before the registry put, so a
// ledger failure leaves the stored record untouched.
func (s *Service) transition(ctx context.Context, actor Actor, projectID uint64, action domain.Action, payload any, apply transitionFn, eventType string) (domain.Project, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Project{}, domain.ErrUnauthorized
	}
	requestHash := hashPayload(struct {
		Action    domain.Action
		ProjectID uint64
		Payload   any
	}{action, projectID, payload})
	if cached, ok, err := s.getIdempotentProject(ctx, actor, requestHash); err != nil {
		return domain.Project{}, err
	} else if ok {
		return cached, nil
	}

	unlock := s.locks.acquire(projectID)
	defer unlock()

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}
	role := domain.ResolveRole(project, actor.SubjectID, s.cfg.Arbitrators)
	if err := domain.AuthorizeAction(action, role); err != nil {
		return domain.Project{}, err
	}
	if err := domain.ValidateTransition(project.Status, action); err != nil {
		return domain.Project{}, err
	}
	account, err := s.escrows.GetByProjectID(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}

	if err := apply(ctx, &project, account); err != nil {
		return domain.Project{}, err
	}
	project.UpdatedAt = s.nowFn()
	if err := s.projects.Put(ctx, project); err != nil {
		return domain.Project{}, err
	}
	if eventType != "" {
		_ = s.enqueueProjectTransition(ctx, actor, project, eventType)
	}
	if err := s.completeIdempotent(ctx, actor.IdempotencyKey, 200, project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

// settleEscrow issues the single fund movement for a terminal transition and
// closes the escrow account. The account must still be open; a settled hold
// is never moved twice.
func (s *Service) settleEscrow(ctx context.Context, account domain.EscrowAccount, outcome domain.Outcome, project domain.Project) error {
	if !account.Open() {
		return domain.ErrEscrowClosed
	}
	var err error
	disposition := ""
	switch outcome.Kind {
	case domain.OutcomeRelease:
		err = s.ledger.Release(ctx, account.EscrowRef, project.Freelancer)
		disposition = domain.DispositionReleased
	case domain.OutcomeRefund:
		err = s.ledger.Refund(ctx, account.EscrowRef, project.Client)
		disposition = domain.DispositionRefunded
	case domain.OutcomeSplit:
		err = s.ledger.Split(ctx, account.EscrowRef, project.Client, outcome.ClientAmount, project.Freelancer, outcome.FreelancerAmount)
		disposition = domain.DispositionSplit
	default:
		return domain.ErrInvalidInput
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrLedgerFailure, disposition, err)
	}
	now := s.nowFn()
	account.Disposition = disposition
	account.ClosedAt = &now
	return s.escrows.Put(ctx, account)
}

// recordRating is best effort: a rating store failure never rolls back the
// settled transition, but it is always logged.
func (s *Service) recordRating(ctx context.Context, actor Actor, principal string, score int) {
	entry, err := s.ratings.Record(ctx, principal, score)
	if err != nil {
		slog.Default().WarnContext(ctx, "failed to record rating",
			"module", "application.service",
			"operation", "record_rating",
			"outcome", "failure",
			"principal", principal,
			"score", score,
			"error", err,
		)
		return
	}
	_ = s.publishRatingRecorded(ctx, actor, entry, score)
}
