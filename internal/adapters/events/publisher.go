package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/worklane/escrow-engine/internal/contracts"
)

// LoggingPublisher emits the envelope to the structured log instead of a
// broker. Used when no Kafka brokers are configured.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) publish(ctx context.Context, event contracts.EventEnvelope) error {
	p.logger.InfoContext(ctx, "event published",
		"module", "events.publisher",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"event_type", event.EventType,
		"event_class", event.EventClass,
		"partition_key", event.PartitionKey,
		"payload_bytes", len(event.Data),
	)
	return nil
}

func (p *LoggingPublisher) PublishDomain(ctx context.Context, event contracts.EventEnvelope) error {
	return p.publish(ctx, event)
}

func (p *LoggingPublisher) PublishAnalytics(ctx context.Context, event contracts.EventEnvelope) error {
	return p.publish(ctx, event)
}

// MemoryPublisher records envelopes in order for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []contracts.EventEnvelope
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) PublishDomain(ctx context.Context, event contracts.EventEnvelope) error {
	return p.record(event)
}

func (p *MemoryPublisher) PublishAnalytics(ctx context.Context, event contracts.EventEnvelope) error {
	return p.record(event)
}

func (p *MemoryPublisher) record(event contracts.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *MemoryPublisher) Events() []contracts.EventEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]contracts.EventEnvelope, len(p.events))
	copy(out, p.events)
	return out
}
