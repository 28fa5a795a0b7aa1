package http

import (
	"errors"
	"net/url"
	"testing"

	"salesdash/internal/core"
)

func TestParseMonthParam(t *testing.T) {
	tests := []struct {
		raw     string
		want    core.Month
		wantErr bool
	}{
		{raw: "01", want: 1},
		{raw: "6", want: 6},
		{raw: " 12 ", want: 12},
		{raw: "", wantErr: true},
		{raw: "00", wantErr: true},
		{raw: "13", wantErr: true},
		{raw: "june", wantErr: true},
		{raw: "006", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMonthParam(url.Values{"month": {tt.raw}})
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
		wantErr     error
	}{
		{name: "defaults", query: "", wantPage: 1, wantPerPage: 10},
		{name: "explicit", query: "page=3&perPage=25", wantPage: 3, wantPerPage: 25},
		{name: "clamped", query: "perPage=500", wantPage: 1, wantPerPage: 100},
		{name: "zero page", query: "page=0", wantErr: core.ErrInvalidPage},
		{name: "negative perPage", query: "perPage=-5", wantErr: core.ErrInvalidPerPage},
		{name: "text page", query: "page=two", wantErr: core.ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			p, err := ParsePageParams(q, 10, 100)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Number() != tt.wantPage || p.PerPage() != tt.wantPerPage {
				t.Fatalf("page=%d perPage=%d, want %d/%d", p.Number(), p.PerPage(), tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestParseSearchParam(t *testing.T) {
	got, err := ParseSearchParam(url.Values{"search": {"  gold\x00ring\t "}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "goldring" {
		t.Fatalf("got %q", got)
	}

	long := make([]byte, maxSearchLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := ParseSearchParam(url.Values{"search": {string(long)}}); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected invalid input for long search, got %v", err)
	}
}
