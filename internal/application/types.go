package application

import (
	"time"

	"github.com/worklane/escrow-engine/internal/ports"
)

type Config struct {
	ServiceName          string
	Arbitrators          []string
	DefaultRating        int
	IdempotencyTTL       time.Duration
	OutboxFlushBatchSize int
}

// Actor is the gateway-verified caller identity. The engine resolves the
// caller's role per project itself; the transport never decides authority.
type Actor struct {
	SubjectID      string
	RequestID      string
	IdempotencyKey string
}

type CreateProjectInput struct {
	Title       string
	Description string
	Budget      int64
	Deadline    time.Time
	Freelancer  string
}

type ResolveDisputeInput struct {
	Outcome          string
	ClientAmount     int64
	FreelancerAmount int64
}

type Service struct {
	cfg Config

	projects    ports.ProjectRepository
	disputes    ports.DisputeRepository
	escrows     ports.EscrowRepository
	ratings     ports.RatingRepository
	idempotency ports.IdempotencyRepository
	outbox      ports.OutboxRepository

	ledger ports.Ledger

	domainEvents ports.DomainPublisher
	analytics    ports.AnalyticsPublisher

	locks projectLocks
	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Projects    ports.ProjectRepository
	Disputes    ports.DisputeRepository
	Escrows     ports.EscrowRepository
	Ratings     ports.RatingRepository
	Idempotency ports.IdempotencyRepository
	Outbox      ports.OutboxRepository

	Ledger ports.Ledger

	DomainEvents ports.DomainPublisher
	Analytics    ports.AnalyticsPublisher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "escrow-engine"
	}
	if cfg.DefaultRating == 0 {
		cfg.DefaultRating = 5
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.OutboxFlushBatchSize <= 0 {
		cfg.OutboxFlushBatchSize = 100
	}
	return &Service{
		cfg:          cfg,
		projects:     deps.Projects,
		disputes:     deps.Disputes,
		escrows:      deps.Escrows,
		ratings:      deps.Ratings,
		idempotency:  deps.Idempotency,
		outbox:       deps.Outbox,
		ledger:       deps.Ledger,
		domainEvents: deps.DomainEvents,
		analytics:    deps.Analytics,
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}
