package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/worklane/escrow-engine/internal/contracts"
	"github.com/worklane/escrow-engine/internal/domain"
	"github.com/worklane/escrow-engine/internal/ports"
)

// FlushOutbox drains pending domain events to the publisher. Invoked by the
// outbox worker process; the engine itself never publishes domain events
// inline.
func (s *Service) FlushOutbox(ctx context.Context) (int, error) {
	if s.outbox == nil || s.domainEvents == nil {
		return 0, nil
	}
	pending, err := s.outbox.ListPending(ctx, s.cfg.OutboxFlushBatchSize)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, record := range pending {
		if err := s.domainEvents.PublishDomain(ctx, record.Envelope); err != nil {
			return sent, err
		}
		if err := s.outbox.MarkSent(ctx, record.RecordID, s.nowFn()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *Service) enqueueProjectCreated(ctx context.Context, actor Actor, project domain.Project) error {
	payload := contracts.ProjectCreatedPayload{
		ProjectID:  project.ID,
		Client:     project.Client,
		Freelancer: project.Freelancer,
		Budget:     project.Budget,
		Deadline:   project.Deadline.Format(time.RFC3339),
		CreatedAt:  project.CreatedAt.Format(time.RFC3339),
	}
	return s.enqueueDomainEvent(ctx, domain.EventProjectCreated, project.ID, actor.RequestID, payload)
}

func (s *Service) enqueueProjectTransition(ctx context.Context, actor Actor, project domain.Project, eventType string) error {
	payload := contracts.ProjectTransitionPayload{
		ProjectID: project.ID,
		Status:    string(project.Status),
		Actor:     actor.SubjectID,
		At:        project.UpdatedAt.Format(time.RFC3339),
	}
	return s.enqueueDomainEvent(ctx, eventType, project.ID, actor.RequestID, payload)
}

func (s *Service) enqueueProjectDisputed(ctx context.Context, actor Actor, dispute domain.Dispute) error {
	payload := contracts.ProjectDisputedPayload{
		ProjectID: dispute.ProjectID,
		Initiator: dispute.Initiator,
		Reason:    dispute.Reason,
		OpenedAt:  dispute.OpenedAt.Format(time.RFC3339),
	}
	return s.enqueueDomainEvent(ctx, domain.EventProjectDisputed, dispute.ProjectID, actor.RequestID, payload)
}

func (s *Service) publishDisputeResolved(ctx context.Context, actor Actor, project domain.Project, dispute domain.Dispute) error {
	if s.analytics == nil || dispute.Outcome == nil {
		return nil
	}
	clientAmount, freelancerAmount := settledAmounts(*dispute.Outcome, project.Budget)
	payload := contracts.DisputeResolvedPayload{
		ProjectID:        project.ID,
		Outcome:          string(dispute.Outcome.Kind),
		ClientAmount:     clientAmount,
		FreelancerAmount: freelancerAmount,
		ResolvedBy:       dispute.ResolvedBy,
		ResolvedAt:       dispute.ResolvedAt.Format(time.RFC3339),
	}
	env, err := s.buildEnvelope(domain.EventDisputeResolved, project.ID, actor.RequestID, payload)
	if err != nil {
		return err
	}
	if err := validateEnvelope(env); err != nil {
		return err
	}
	// analytics_only is best effort; a publish failure never fails the action
	_ = s.analytics.PublishAnalytics(ctx, env)
	return nil
}

func (s *Service) publishRatingRecorded(ctx context.Context, actor Actor, entry domain.RatingEntry, score int) error {
	if s.analytics == nil {
		return nil
	}
	payload := contracts.RatingRecordedPayload{
		Principal: entry.Principal,
		Score:     score,
		Average:   entry.Average(),
		Count:     entry.Count,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	env := contracts.EventEnvelope{
		EventID:          uuid.NewString(),
		EventType:        domain.EventRatingRecorded,
		EventClass:       domain.CanonicalEventClassAnalyticsOnly,
		OccurredAt:       s.nowFn(),
		PartitionKeyPath: domain.CanonicalPartitionKeyPath(domain.EventRatingRecorded),
		PartitionKey:     entry.Principal,
		SourceService:    s.cfg.ServiceName,
		TraceID:          nonEmpty(actor.RequestID, uuid.NewString()),
		SchemaVersion:    "v1",
		Data:             data,
	}
	if err := validateEnvelope(env); err != nil {
		return err
	}
	_ = s.analytics.PublishAnalytics(ctx, env)
	return nil
}

func (s *Service) enqueueDomainEvent(ctx context.Context, eventType string, projectID uint64, traceID string, payload any) error {
	if s.outbox == nil {
		return nil
	}
	env, err := s.buildEnvelope(eventType, projectID, traceID, payload)
	if err != nil {
		return err
	}
	if err := validateEnvelope(env); err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		RecordID:   uuid.NewString(),
		EventClass: env.EventClass,
		Envelope:   env,
		CreatedAt:  s.nowFn(),
	})
}

// validateEnvelope enforces the emit invariants: only canonical event types
// leave the engine, carrying their canonical class and a non-empty partition
// key on the canonical path.
func validateEnvelope(env contracts.EventEnvelope) error {
	if !domain.IsCanonicalEmittedEvent(env.EventType) {
		return domain.ErrInvalidEnvelope
	}
	if env.EventClass != domain.CanonicalEventClass(env.EventType) {
		return domain.ErrInvalidEnvelope
	}
	if env.PartitionKeyPath != domain.CanonicalPartitionKeyPath(env.EventType) || strings.TrimSpace(env.PartitionKey) == "" {
		return domain.ErrInvalidEnvelope
	}
	return nil
}

func (s *Service) buildEnvelope(eventType string, projectID uint64, traceID string, payload any) (contracts.EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return contracts.EventEnvelope{}, err
	}
	return contracts.EventEnvelope{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		EventClass:       domain.CanonicalEventClass(eventType),
		OccurredAt:       s.nowFn(),
		PartitionKeyPath: domain.CanonicalPartitionKeyPath(eventType),
		PartitionKey:     strconv.FormatUint(projectID, 10),
		SourceService:    s.cfg.ServiceName,
		TraceID:          nonEmpty(traceID, uuid.NewString()),
		SchemaVersion:    "v1",
		Data:             data,
	}, nil
}

func settledAmounts(outcome domain.Outcome, escrowed int64) (client, freelancer int64) {
	switch outcome.Kind {
	case domain.OutcomeRelease:
		return 0, escrowed
	case domain.OutcomeRefund:
		return escrowed, 0
	default:
		return outcome.ClientAmount, outcome.FreelancerAmount
	}
}

func (s *Service) getIdempotentProject(ctx context.Context, actor Actor, requestHash string) (domain.Project, bool, error) {
	if s.idempotency == nil || strings.TrimSpace(actor.IdempotencyKey) == "" {
		return domain.Project{}, false, nil
	}
	now := s.nowFn()
	existing, err := s.idempotency.Get(ctx, actor.IdempotencyKey, now)
	if err != nil {
		return domain.Project{}, false, err
	}
	if existing != nil {
		if existing.RequestHash != requestHash {
			return domain.Project{}, false, domain.ErrIdempotencyConflict
		}
		if len(existing.ResponseBody) == 0 {
			return domain.Project{}, false, nil
		}
		var cached domain.Project
		if err := json.Unmarshal(existing.ResponseBody, &cached); err != nil {
			return domain.Project{}, false, err
		}
		return cached, true, nil
	}
	if err := s.idempotency.Reserve(ctx, actor.IdempotencyKey, requestHash, now.Add(s.cfg.IdempotencyTTL)); err != nil {
		return domain.Project{}, false, err
	}
	return domain.Project{}, false, nil
}

func (s *Service) completeIdempotent(ctx context.Context, key string, code int, payload any) error {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.idempotency.Complete(ctx, key, code, b, s.nowFn())
}

func hashPayload(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
