package events

import (
	"context"
	"log/slog"
	"time"
)

// Flusher drains pending outbox records to the domain publisher.
type Flusher interface {
	FlushOutbox(ctx context.Context) (int, error)
}

// OutboxWorker drives the outbox flush on a fixed interval. This separates
// transactional writes from broker delivery for reliability.
type OutboxWorker struct {
	logger   *slog.Logger
	flusher  Flusher
	interval time.Duration
}

func NewOutboxWorker(logger *slog.Logger, flusher Flusher, interval time.Duration) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxWorker{logger: logger, flusher: flusher, interval: interval}
}

// Run executes the periodic flush loop until context cancellation.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		sent, err := w.flusher.FlushOutbox(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "outbox flush failed",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "flush_outbox",
				"outcome", "failure",
				"error", err,
			)
		} else if sent > 0 {
			w.logger.InfoContext(ctx, "outbox batch flushed",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "flush_outbox",
				"outcome", "success",
				"published_count", sent,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
