package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"salesdash/internal/core"
	"salesdash/internal/repo"
)

// ErrStorageUnavailable is matched by every error caused by the repository.
var ErrStorageUnavailable = errors.New("transaction storage unavailable")

// QueryError reports a failed reporting operation. It unwraps to both
// ErrStorageUnavailable and the underlying repository error.
type QueryError struct {
	Op    string
	Month core.Month
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s (month=%s): %v", e.Op, e.Month, e.Err)
}

func (e *QueryError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// ReportService computes month-bounded views over the transaction store.
// It holds no mutable state; all methods are safe for concurrent use.
type ReportService struct {
	repo repo.TransactionRepository
	year int
}

func NewReportService(r repo.TransactionRepository, year int) *ReportService {
	if year == 0 {
		year = core.DefaultReportYear
	}
	return &ReportService{repo: r, year: year}
}

// Year is the reference year month selectors resolve against.
func (s *ReportService) Year() int {
	return s.year
}

// MonthRange resolves m against the reference year.
func (s *ReportService) MonthRange(m core.Month) core.DateRange {
	return core.ResolveMonthRange(s.year, m)
}

// ListTransactions returns one page of the month's transactions matching search.
func (s *ReportService) ListTransactions(ctx context.Context, m core.Month, search string, page core.Page) ([]core.Transaction, error) {
	f := repo.Filter{Range: s.MonthRange(m), Search: search}
	txs, err := s.repo.Find(ctx, f, page.Offset(), page.PerPage())
	if err != nil {
		return nil, &QueryError{Op: "list transactions", Month: m, Err: err}
	}
	slog.DebugContext(ctx, "Transactions listed",
		"month", m.String(),
		"search", search,
		"page", page.Number(),
		"per_page", page.PerPage(),
		"count", len(txs))
	return txs, nil
}

func (s *ReportService) GetStatistics(ctx context.Context, m core.Month) (core.Statistics, error) {
	stats, err := s.statistics(ctx, s.MonthRange(m))
	if err != nil {
		return core.Statistics{}, &QueryError{Op: "get statistics", Month: m, Err: err}
	}
	return stats, nil
}

func (s *ReportService) GetBarChart(ctx context.Context, m core.Month) (core.PriceHistogram, error) {
	h, err := s.barChart(ctx, s.MonthRange(m))
	if err != nil {
		return core.PriceHistogram{}, &QueryError{Op: "get bar chart", Month: m, Err: err}
	}
	return h, nil
}

func (s *ReportService) GetPieChart(ctx context.Context, m core.Month) ([]core.CategoryCount, error) {
	pie, err := s.pieChart(ctx, s.MonthRange(m))
	if err != nil {
		return nil, &QueryError{Op: "get pie chart", Month: m, Err: err}
	}
	return pie, nil
}

// GetCombinedReport runs the listing and the three aggregates concurrently
// against a single resolved range. Either every part succeeds or the zero
// report is returned with the first error.
func (s *ReportService) GetCombinedReport(ctx context.Context, m core.Month) (core.CombinedReport, error) {
	r := s.MonthRange(m)

	var (
		txs   []core.Transaction
		stats core.Statistics
		bar   core.PriceHistogram
		pie   []core.CategoryCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.repo.Find(gctx, repo.Filter{Range: r}, 0, 0)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = s.statistics(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		bar, err = s.barChart(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		pie, err = s.pieChart(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Combined report failed", "month", m.String(), "range", r.String(), "error", err)
		return core.CombinedReport{}, &QueryError{Op: "get combined report", Month: m, Err: err}
	}

	return core.CombinedReport{
		Transactions: txs,
		Statistics:   stats,
		BarChart:     bar,
		PieChart:     pie,
		Range:        r,
	}, nil
}

func (s *ReportService) statistics(ctx context.Context, r core.DateRange) (core.Statistics, error) {
	sold := repo.Filter{Range: r, Sold: repo.SoldOnly()}

	total, err := s.repo.Sum(ctx, repo.FieldPrice, sold)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("sum sold prices: %w", err)
	}
	soldCount, err := s.repo.Count(ctx, sold)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("count sold: %w", err)
	}
	unsoldCount, err := s.repo.Count(ctx, repo.Filter{Range: r, Sold: repo.UnsoldOnly()})
	if err != nil {
		return core.Statistics{}, fmt.Errorf("count not sold: %w", err)
	}

	return core.Statistics{
		TotalSaleAmount:   total.Round(2).InexactFloat64(),
		TotalSoldItems:    soldCount,
		TotalNotSoldItems: unsoldCount,
	}, nil
}

func (s *ReportService) barChart(ctx context.Context, r core.DateRange) (core.PriceHistogram, error) {
	var h core.PriceHistogram
	txs, err := s.repo.Find(ctx, repo.Filter{Range: r, Sold: repo.SoldOnly()}, 0, 0)
	if err != nil {
		return h, fmt.Errorf("find sold transactions: %w", err)
	}
	for _, t := range txs {
		h.Add(t.Price)
	}
	return h, nil
}

func (s *ReportService) pieChart(ctx context.Context, r core.DateRange) ([]core.CategoryCount, error) {
	groups, err := s.repo.GroupByCategory(ctx, repo.Filter{Range: r})
	if err != nil {
		return nil, fmt.Errorf("group by category: %w", err)
	}
	out := make([]core.CategoryCount, 0, len(groups))
	for _, g := range groups {
		if g.Count > 0 {
			out = append(out, g)
		}
	}
	return out, nil
}
