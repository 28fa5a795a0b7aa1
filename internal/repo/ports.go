package repo

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"salesdash/internal/core"
)

// Field names a numeric column that can be summed.
type Field string

const FieldPrice Field = "price"

// Filter selects transactions. A zero Range is unbounded, the zero Sold
// matches both sold and unsold records, and an empty Search matches
// everything. The zero Filter therefore selects the whole collection.
type Filter struct {
	Range  core.DateRange
	Sold   *bool
	Search string
}

// Ports for the transaction store.
type (
	TransactionFinder interface {
		// Find returns matching records in store order. limit <= 0 means no limit.
		Find(ctx context.Context, f Filter, skip, limit int) ([]core.Transaction, error)
		Count(ctx context.Context, f Filter) (int64, error)
	}

	TransactionAggregator interface {
		// GroupByCategory returns one entry per category present in f.
		GroupByCategory(ctx context.Context, f Filter) ([]core.CategoryCount, error)
		Sum(ctx context.Context, field Field, f Filter) (decimal.Decimal, error)
	}

	// TransactionReplacer swaps the whole collection in one step.
	TransactionReplacer interface {
		ReplaceAll(ctx context.Context, txs []core.Transaction) error
	}

	TransactionRepository interface {
		TransactionFinder
		TransactionAggregator
		TransactionReplacer
	}
)

// SoldOnly and UnsoldOnly are helpers for Filter.Sold.
func SoldOnly() *bool   { b := true; return &b }
func UnsoldOnly() *bool { b := false; return &b }

// Matches applies f to a single record. Title and description match the
// search as a case-insensitive substring; a numeric search also matches an
// equal price.
func (f Filter) Matches(t core.Transaction) bool {
	if !f.Range.IsZero() && !f.Range.Contains(t.DateOfSale) {
		return false
	}
	if f.Sold != nil && t.Sold != *f.Sold {
		return false
	}
	return f.matchesSearch(t)
}

func (f Filter) matchesSearch(t core.Transaction) bool {
	q := strings.TrimSpace(f.Search)
	if q == "" {
		return true
	}
	lq := strings.ToLower(q)
	if strings.Contains(strings.ToLower(t.Title), lq) || strings.Contains(strings.ToLower(t.Description), lq) {
		return true
	}
	if price, ok := f.SearchPrice(); ok {
		return t.Price == price
	}
	return false
}

// SearchPrice reports whether the search string is a number.
func (f Filter) SearchPrice() (float64, bool) {
	p, err := strconv.ParseFloat(strings.TrimSpace(f.Search), 64)
	if err != nil {
		return 0, false
	}
	return p, true
}
