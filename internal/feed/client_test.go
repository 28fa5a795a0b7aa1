package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sample = `[
  {"id":1,"title":"Fjallraven Backpack","price":329.85,"description":"Your perfect pack","category":"men's clothing","image":"https://example.com/1.jpg","sold":false,"dateOfSale":"2021-11-27T20:29:54+05:30"},
  {"id":2,"title":"Mens Casual T-Shirt","price":44.6,"description":"Slim-fitting style","category":"men's clothing","image":"https://example.com/2.jpg","sold":true,"dateOfSale":"2021-10-27T20:29:54+05:30"}
]`

func TestFetchDecodesAndNormalisesDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{URL: srv.URL})
	txs, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(txs))
	}

	first := txs[0]
	if first.ID != 1 || first.Price != 329.85 || first.Sold || first.Category != "men's clothing" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	want := time.Date(2021, time.November, 27, 14, 59, 54, 0, time.UTC)
	if !first.DateOfSale.Equal(want) || first.DateOfSale.Location() != time.UTC {
		t.Fatalf("dateOfSale = %v, want %v in UTC", first.DateOfSale, want)
	}
	if !txs[1].Sold {
		t.Fatalf("expected second record sold")
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClient(ClientConfig{URL: srv.URL}).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for 403")
	}
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	if _, err := NewClient(ClientConfig{URL: srv.URL}).Fetch(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(ClientConfig{})
	if c.URL() != DefaultURL {
		t.Fatalf("URL = %q, want default", c.URL())
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v, want 30s", c.httpClient.Timeout)
	}
}
