package core

import (
	"errors"
	"testing"
	"time"
)

func TestResolveMonthRange(t *testing.T) {
	for m := Month(1); m <= 12; m++ {
		r := ResolveMonthRange(2021, m)
		if r.Start.Day() != 1 || r.Start.Month() != time.Month(m) || r.Start.Year() != 2021 {
			t.Fatalf("month %s: unexpected start %v", m, r.Start)
		}
		if !r.End.Equal(r.Start.AddDate(0, 1, 0)) {
			t.Fatalf("month %s: end %v is not one month after start %v", m, r.End, r.Start)
		}
		if r.End.Day() != 1 {
			t.Fatalf("month %s: end %v is not a first-of-month", m, r.End)
		}
	}
}

func TestResolveMonthRangeDecemberRollsOver(t *testing.T) {
	r := ResolveMonthRange(2021, 12)
	want := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !r.End.Equal(want) {
		t.Fatalf("December end = %v, want %v", r.End, want)
	}
}

func TestDateRangeContainsIsHalfOpen(t *testing.T) {
	june := ResolveMonthRange(2021, 6)
	july := ResolveMonthRange(2021, 7)
	boundary := time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC)

	if june.Contains(boundary) {
		t.Fatalf("boundary %v must not be in June", boundary)
	}
	if !july.Contains(boundary) {
		t.Fatalf("boundary %v must be in July", boundary)
	}
	if !june.Contains(boundary.Add(-time.Nanosecond)) {
		t.Fatalf("last instant of June must be in June")
	}
}

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want Month
		ok   bool
	}{
		{"01", 1, true},
		{"6", 6, true},
		{"12", 12, true},
		{" 03 ", 3, true},
		{"00", 0, false},
		{"13", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"-1", 0, false},
		{"006", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: got %d, %v; want %d", tc.in, got, err, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q: expected invalid input, got %v", tc.in, err)
		}
	}
}

func TestMonthString(t *testing.T) {
	if got := Month(3).String(); got != "03" {
		t.Fatalf("Month(3).String() = %q", got)
	}
}

func TestNewPage(t *testing.T) {
	p, err := NewPage(3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Offset() != 20 || p.PerPage() != 10 || p.Number() != 3 {
		t.Fatalf("unexpected page %+v offset=%d", p, p.Offset())
	}

	if _, err := NewPage(0, 10); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
	if _, err := NewPage(1, 0); !errors.Is(err, ErrInvalidPerPage) {
		t.Fatalf("expected ErrInvalidPerPage, got %v", err)
	}
	if _, err := NewPage(1, -5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{ID: 1, Price: 10, DateOfSale: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	neg := good
	neg.Price = -1
	if err := neg.Validate(); !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}

	noDate := good
	noDate.DateOfSale = time.Time{}
	if err := noDate.Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestDateRangeIsZero(t *testing.T) {
	if !(DateRange{}).IsZero() {
		t.Fatalf("zero range must report IsZero")
	}
	if ResolveMonthRange(2021, 6).IsZero() {
		t.Fatalf("resolved range must not report IsZero")
	}
}
