package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultReportYear is the reference year month selectors are resolved against.
const DefaultReportYear = 2021

type (
	// Month is a calendar month selector, 1-12, independent of year.
	Month int

	// DateRange is the half-open interval [Start, End).
	DateRange struct {
		Start time.Time
		End   time.Time
	}

	Transaction struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Price       float64   `json:"price"`
		Category    string    `json:"category"`
		DateOfSale  time.Time `json:"dateOfSale"`
		Sold        bool      `json:"sold"`
	}

	// Page is a validated pagination window. Build it with NewPage.
	Page struct {
		number  int
		perPage int
	}
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidMonth   = fmt.Errorf("%w: month must be 01-12", ErrInvalidInput)
	ErrInvalidPage    = fmt.Errorf("%w: page must be a positive integer", ErrInvalidInput)
	ErrInvalidPerPage = fmt.Errorf("%w: perPage must be a positive integer", ErrInvalidInput)
	ErrNegativePrice  = errors.New("negative price")
)

// ParseMonth parses a month selector such as "06" or "6".
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 2 {
		return 0, ErrInvalidMonth
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidMonth
	}
	m := Month(n)
	if !m.Valid() {
		return 0, ErrInvalidMonth
	}
	return m, nil
}

func (m Month) Valid() bool {
	return m >= 1 && m <= 12
}

// String returns the two-digit selector form ("01".."12").
func (m Month) String() string {
	return fmt.Sprintf("%02d", int(m))
}

// ResolveMonthRange returns the calendar month m of year as [first day, first
// day of next month). December rolls over into January of year+1.
// Callers pass a valid month; other values yield a normalised, non-panicking
// range.
func ResolveMonthRange(year int, m Month) DateRange {
	start := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, 0)}
}

// IsZero reports whether neither bound is set. A zero range is unbounded.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls inside the half-open range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r DateRange) String() string {
	return "[" + r.Start.Format("2006-01-02") + ", " + r.End.Format("2006-01-02") + ")"
}

// NewPage validates a 1-based page number and a page size.
func NewPage(number, perPage int) (Page, error) {
	if number < 1 {
		return Page{}, ErrInvalidPage
	}
	if perPage < 1 {
		return Page{}, ErrInvalidPerPage
	}
	return Page{number: number, perPage: perPage}, nil
}

func (p Page) Number() int  { return p.number }
func (p Page) PerPage() int { return p.perPage }

// Offset is the number of records skipped before this page.
func (p Page) Offset() int {
	return (p.number - 1) * p.perPage
}

// Validate checks the fields a seeded record must satisfy.
func (t Transaction) Validate() error {
	if t.Price < 0 {
		return fmt.Errorf("transaction %d: %w", t.ID, ErrNegativePrice)
	}
	if t.DateOfSale.IsZero() {
		return fmt.Errorf("transaction %d: missing dateOfSale", t.ID)
	}
	return nil
}
