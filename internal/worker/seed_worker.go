package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salesdash/internal/amqp"
)

// Seeder reloads the transaction collection.
type Seeder interface {
	Seed(ctx context.Context) (int, error)
}

// SeedWorker handles seed requests delivered over AMQP
type SeedWorker struct {
	seeder  Seeder
	timeout time.Duration
}

// NewSeedWorker creates a worker. A zero timeout leaves the delivery context as is.
func NewSeedWorker(seeder Seeder, timeout time.Duration) *SeedWorker {
	return &SeedWorker{
		seeder:  seeder,
		timeout: timeout,
	}
}

// HandleSeedRequest runs one seed for a queued request.
func (w *SeedWorker) HandleSeedRequest(ctx context.Context, msg *amqp.SeedRequestMessage) error {
	slog.InfoContext(ctx, "Processing seed request",
		"request_id", msg.RequestID,
		"source", msg.Source,
		"queued_for", time.Since(msg.Timestamp).Round(time.Millisecond))

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	n, err := w.seeder.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed request %s: %w", msg.RequestID, err)
	}

	slog.InfoContext(ctx, "Seed request completed",
		"request_id", msg.RequestID,
		"count", n)
	return nil
}

// StartupSeed seeds once before the worker starts consuming, so an empty
// database is populated even if no request was ever queued.
func (w *SeedWorker) StartupSeed(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup seed")
	return w.HandleSeedRequest(ctx, amqp.NewSeedRequestMessage("startup", "worker"))
}
