package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/worklane/escrow-engine/internal/domain"
	"github.com/worklane/escrow-engine/internal/ports"
)

type Repositories struct {
	Projects    *ProjectRepository
	Disputes    *DisputeRepository
	Escrows     *EscrowRepository
	Ratings     *RatingRepository
	Idempotency *IdempotencyRepository
	Outbox      *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Projects: &ProjectRepository{
			projects: make(map[uint64]domain.Project),
		},
		Disputes: &DisputeRepository{
			disputes: make(map[uint64]domain.Dispute),
		},
		Escrows: &EscrowRepository{
			accounts: make(map[uint64]domain.EscrowAccount),
		},
		Ratings: &RatingRepository{
			entries: make(map[string]domain.RatingEntry),
		},
		Idempotency: &IdempotencyRepository{
			records: make(map[string]ports.IdempotencyRecord),
		},
		Outbox: &OutboxRepository{
			records: make(map[string]ports.OutboxRecord),
		},
	}
}

// ProjectRepository is the registry: canonical records plus the monotonic id
// counter, both guarded by one mutex so NextID and Put stay linearized.
type ProjectRepository struct {
	mu       sync.RWMutex
	counter  uint64
	projects map[uint64]domain.Project
	order    []uint64
}

func (r *ProjectRepository) NextID(_ context.Context) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return r.counter, nil
}

func (r *ProjectRepository) Get(_ context.Context, id uint64) (domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return project, nil
}

func (r *ProjectRepository) Put(_ context.Context, project domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.projects[project.ID]; !exists {
		r.order = append(r.order, project.ID)
	}
	r.projects[project.ID] = project
	return nil
}

func (r *ProjectRepository) Counter(_ context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counter, nil
}

func (r *ProjectRepository) ListByPrincipal(_ context.Context, principal string) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Project, 0, 8)
	for _, id := range r.order {
		project := r.projects[id]
		if project.Client == principal || project.Freelancer == principal {
			out = append(out, project)
		}
	}
	return out, nil
}

type DisputeRepository struct {
	mu       sync.RWMutex
	disputes map[uint64]domain.Dispute
}

func (r *DisputeRepository) Put(_ context.Context, dispute domain.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disputes[dispute.ProjectID] = dispute
	return nil
}

func (r *DisputeRepository) GetByProjectID(_ context.Context, projectID uint64) (domain.Dispute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dispute, ok := r.disputes[projectID]
	if !ok {
		return domain.Dispute{}, domain.ErrNotFound
	}
	return dispute, nil
}

type EscrowRepository struct {
	mu       sync.RWMutex
	accounts map[uint64]domain.EscrowAccount
}

func (r *EscrowRepository) Put(_ context.Context, account domain.EscrowAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ProjectID] = account
	return nil
}

func (r *EscrowRepository) GetByProjectID(_ context.Context, projectID uint64) (domain.EscrowAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[projectID]
	if !ok {
		return domain.EscrowAccount{}, domain.ErrNotFound
	}
	return account, nil
}

type RatingRepository struct {
	mu      sync.Mutex
	entries map[string]domain.RatingEntry
}

func (r *RatingRepository) Record(_ context.Context, principal string, score int) (domain.RatingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := r.entries[principal]
	entry.Principal = principal
	entry.TotalScore += int64(score)
	entry.Count++
	r.entries[principal] = entry
	return entry, nil
}

func (r *RatingRepository) Get(_ context.Context, principal string) (domain.RatingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[principal]
	if !ok {
		return domain.RatingEntry{Principal: principal}, nil
	}
	return entry, nil
}

type IdempotencyRepository struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
}

func (r *IdempotencyRepository) Get(_ context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key]
	if !ok {
		return nil, nil
	}
	if now.After(record.ExpiresAt) {
		delete(r.records, key)
		return nil, nil
	}
	clone := record
	return &clone, nil
}

// Reserve treats any stored record as live: expiry is enforced by Get, which
// purges stale records with the caller's clock before the service reserves.
func (r *IdempotencyRepository) Reserve(_ context.Context, key, requestHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.records[key]; ok {
		if existing.RequestHash != requestHash {
			return domain.ErrIdempotencyConflict
		}
		return nil
	}
	r.records[key] = ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (r *IdempotencyRepository) Complete(_ context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key]
	if !ok {
		return domain.ErrNotFound
	}
	record.ResponseCode = responseCode
	record.ResponseBody = slices.Clone(responseBody)
	if at.After(record.ExpiresAt) {
		record.ExpiresAt = at.Add(7 * 24 * time.Hour)
	}
	r.records[key] = record
	return nil
}

type OutboxRepository struct {
	mu      sync.Mutex
	records map[string]ports.OutboxRecord
	order   []string
}

func (r *OutboxRepository) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.RecordID] = record
	r.order = append(r.order, record.RecordID)
	return nil
}

func (r *OutboxRepository) ListPending(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	out := make([]ports.OutboxRecord, 0, limit)
	for _, id := range r.order {
		record, ok := r.records[id]
		if !ok || record.SentAt != nil {
			continue
		}
		out = append(out, record)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, recordID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	record.SentAt = &at
	r.records[recordID] = record
	return nil
}
