package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"salesdash/internal/core"
	"salesdash/internal/repo"
)

// Store keeps transactions in process memory, in insertion order.
type Store struct {
	mu    sync.RWMutex
	items []core.Transaction
}

func New(txs ...core.Transaction) *Store {
	s := &Store{}
	s.items = normalize(txs)
	return s
}

// Find implements repo.TransactionFinder.
func (s *Store) Find(ctx context.Context, f repo.Filter, skip, limit int) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Transaction{}
	matched := 0
	for _, t := range s.items {
		if !f.Matches(t) {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count implements repo.TransactionFinder.
func (s *Store) Count(ctx context.Context, f repo.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, t := range s.items {
		if f.Matches(t) {
			n++
		}
	}
	return n, nil
}

// GroupByCategory implements repo.TransactionAggregator. Categories appear in
// order of first occurrence.
func (s *Store) GroupByCategory(ctx context.Context, f repo.Filter) ([]core.CategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := map[string]int{}
	out := []core.CategoryCount{}
	for _, t := range s.items {
		if !f.Matches(t) {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryCount{Category: t.Category})
		}
		out[i].Count++
	}
	return out, nil
}

// Sum implements repo.TransactionAggregator.
func (s *Store) Sum(ctx context.Context, field repo.Field, f repo.Filter) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	if field != repo.FieldPrice {
		return decimal.Zero, fmt.Errorf("unsupported sum field: %s", field)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, t := range s.items {
		if f.Matches(t) {
			total = total.Add(decimal.NewFromFloat(t.Price))
		}
	}
	return total, nil
}

// ReplaceAll implements repo.TransactionReplacer.
func (s *Store) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	items := normalize(txs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	return nil
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func normalize(in []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(in))
	for i, t := range in {
		t.DateOfSale = t.DateOfSale.UTC()
		out[i] = t
	}
	return out
}
