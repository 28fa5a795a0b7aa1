package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"salesdash/internal/amqp"
	"salesdash/internal/core"
	"salesdash/internal/repo"
)

var (
	ErrFeedUnavailable = errors.New("seed feed unavailable")
	ErrNoPublisher     = errors.New("no seed request publisher configured")
)

// Fetcher downloads the seed records.
type Fetcher interface {
	Fetch(ctx context.Context) ([]core.Transaction, error)
}

// SeedPublisher queues a seed request for a worker.
type SeedPublisher interface {
	PublishSeedRequest(ctx context.Context, msg *amqp.SeedRequestMessage) error
}

// SeedService replaces the transaction collection with the feed contents.
// Seeds are serialized; reads running alongside a seed are not coordinated.
type SeedService struct {
	fetcher   Fetcher
	store     repo.TransactionReplacer
	publisher SeedPublisher

	mu sync.Mutex
}

// NewSeedService creates a seed service. publisher may be nil, in which case
// only inline seeding is available.
func NewSeedService(fetcher Fetcher, store repo.TransactionReplacer, publisher SeedPublisher) *SeedService {
	return &SeedService{
		fetcher:   fetcher,
		store:     store,
		publisher: publisher,
	}
}

// Async reports whether seed requests are handed to a worker.
func (s *SeedService) Async() bool {
	return s.publisher != nil
}

// Seed fetches the feed and replaces the stored collection. It returns the
// number of records stored.
func (s *SeedService) Seed(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	txs, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("%w: validate feed: %w", ErrFeedUnavailable, err)
		}
	}

	if err := s.store.ReplaceAll(ctx, txs); err != nil {
		return 0, fmt.Errorf("replace transactions: %w", err)
	}

	slog.InfoContext(ctx, "Transactions seeded",
		"count", len(txs),
		"duration", time.Since(start))
	return len(txs), nil
}

// RequestSeed queues a seed request and returns its request ID.
func (s *SeedService) RequestSeed(ctx context.Context, source string) (string, error) {
	if s.publisher == nil {
		return "", ErrNoPublisher
	}
	id := uuid.NewString()
	if err := s.publisher.PublishSeedRequest(ctx, amqp.NewSeedRequestMessage(id, source)); err != nil {
		return "", fmt.Errorf("publish seed request: %w", err)
	}
	return id, nil
}
