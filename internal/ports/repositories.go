package ports

import (
	"context"
	"time"

	"github.com/worklane/escrow-engine/internal/domain"
)

// ProjectRepository is the project registry: it owns the canonical Project
// records and the monotonic id counter. NextID consumes the counter exactly
// once per call and never reuses a value. Put is a full-record replace and
// guarantees read-after-write visibility to the next Get on the same id.
type ProjectRepository interface {
	NextID(ctx context.Context) (uint64, error)
	Get(ctx context.Context, id uint64) (domain.Project, error)
	Put(ctx context.Context, project domain.Project) error
	Counter(ctx context.Context) (uint64, error)
	ListByPrincipal(ctx context.Context, principal string) ([]domain.Project, error)
}

type DisputeRepository interface {
	Put(ctx context.Context, dispute domain.Dispute) error
	GetByProjectID(ctx context.Context, projectID uint64) (domain.Dispute, error)
}

type EscrowRepository interface {
	Put(ctx context.Context, account domain.EscrowAccount) error
	GetByProjectID(ctx context.Context, projectID uint64) (domain.EscrowAccount, error)
}

// RatingRepository appends scores atomically; callers never read-modify-write
// an entry themselves.
type RatingRepository interface {
	Record(ctx context.Context, principal string, score int) (domain.RatingEntry, error)
	Get(ctx context.Context, principal string) (domain.RatingEntry, error)
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key string, now time.Time) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	ListPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, recordID string, at time.Time) error
}
