package postgres

import (
	"encoding/json"

	"github.com/worklane/escrow-engine/internal/contracts"
	"github.com/worklane/escrow-engine/internal/domain"
	"github.com/worklane/escrow-engine/internal/ports"
)

func toProjectModel(p domain.Project) projectModel {
	rec := projectModel{
		ProjectID:   p.ID,
		Client:      p.Client,
		Freelancer:  p.Freelancer,
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		Deadline:    p.Deadline,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.EscrowID != "" {
		escrowID := p.EscrowID
		rec.EscrowID = &escrowID
	}
	return rec
}

func toDomainProject(rec projectModel) domain.Project {
	p := domain.Project{
		ID:          rec.ProjectID,
		Client:      rec.Client,
		Freelancer:  rec.Freelancer,
		Title:       rec.Title,
		Description: rec.Description,
		Budget:      rec.Budget,
		Deadline:    rec.Deadline,
		Status:      domain.ProjectStatus(rec.Status),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.EscrowID != nil {
		p.EscrowID = *rec.EscrowID
	}
	return p
}

func toDisputeModel(d domain.Dispute) disputeModel {
	rec := disputeModel{
		ProjectID: d.ProjectID,
		Initiator: d.Initiator,
		Reason:    d.Reason,
		OpenedAt:  d.OpenedAt,
		Resolved:  d.Resolved,
	}
	if d.Outcome != nil {
		kind := string(d.Outcome.Kind)
		clientAmount := d.Outcome.ClientAmount
		freelancerAmount := d.Outcome.FreelancerAmount
		rec.OutcomeKind = &kind
		rec.ClientAmount = &clientAmount
		rec.FreelancerAmount = &freelancerAmount
	}
	if d.ResolvedBy != "" {
		resolvedBy := d.ResolvedBy
		rec.ResolvedBy = &resolvedBy
	}
	rec.ResolvedAt = d.ResolvedAt
	return rec
}

func toDomainDispute(rec disputeModel) domain.Dispute {
	d := domain.Dispute{
		ProjectID:  rec.ProjectID,
		Initiator:  rec.Initiator,
		Reason:     rec.Reason,
		OpenedAt:   rec.OpenedAt,
		Resolved:   rec.Resolved,
		ResolvedAt: rec.ResolvedAt,
	}
	if rec.OutcomeKind != nil {
		outcome := domain.Outcome{Kind: domain.OutcomeKind(*rec.OutcomeKind)}
		if rec.ClientAmount != nil {
			outcome.ClientAmount = *rec.ClientAmount
		}
		if rec.FreelancerAmount != nil {
			outcome.FreelancerAmount = *rec.FreelancerAmount
		}
		d.Outcome = &outcome
	}
	if rec.ResolvedBy != nil {
		d.ResolvedBy = *rec.ResolvedBy
	}
	return d
}

func toEscrowModel(a domain.EscrowAccount) escrowAccountModel {
	rec := escrowAccountModel{
		ProjectID: a.ProjectID,
		EscrowRef: a.EscrowRef,
		Amount:    a.Amount,
		LockedAt:  a.LockedAt,
		ClosedAt:  a.ClosedAt,
	}
	if a.Disposition != "" {
		disposition := a.Disposition
		rec.Disposition = &disposition
	}
	return rec
}

func toDomainEscrow(rec escrowAccountModel) domain.EscrowAccount {
	a := domain.EscrowAccount{
		ProjectID: rec.ProjectID,
		EscrowRef: rec.EscrowRef,
		Amount:    rec.Amount,
		LockedAt:  rec.LockedAt,
		ClosedAt:  rec.ClosedAt,
	}
	if rec.Disposition != nil {
		a.Disposition = *rec.Disposition
	}
	return a
}

func toOutboxModel(record ports.OutboxRecord) (outboxModel, error) {
	envelope, err := json.Marshal(record.Envelope)
	if err != nil {
		return outboxModel{}, err
	}
	return outboxModel{
		RecordID:   record.RecordID,
		EventClass: record.EventClass,
		Envelope:   string(envelope),
		CreatedAt:  record.CreatedAt,
		SentAt:     record.SentAt,
	}, nil
}

func toOutboxRecord(rec outboxModel) (ports.OutboxRecord, error) {
	var envelope contracts.EventEnvelope
	if err := json.Unmarshal([]byte(rec.Envelope), &envelope); err != nil {
		return ports.OutboxRecord{}, err
	}
	return ports.OutboxRecord{
		RecordID:   rec.RecordID,
		EventClass: rec.EventClass,
		Envelope:   envelope,
		CreatedAt:  rec.CreatedAt,
		SentAt:     rec.SentAt,
	}, nil
}
