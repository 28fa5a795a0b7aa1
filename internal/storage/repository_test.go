package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"salesdash/internal/core"
	"salesdash/internal/repo"
	"salesdash/internal/repo/memory"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	r, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func seed(t *testing.T, r *SQLiteRepository) {
	t.Helper()
	ist := time.FixedZone("IST", 5*3600+1800)
	txs := []core.Transaction{
		{ID: 1, Title: "Mens Casual Shirt", Description: "slim fit 100%", Price: 50, Category: "men's clothing", DateOfSale: time.Date(2021, 6, 3, 10, 0, 0, 0, time.UTC), Sold: true},
		{ID: 2, Title: "Gold Ring", Description: "white GOLD plated", Price: 100.1, Category: "jewelery", DateOfSale: time.Date(2021, 6, 10, 10, 0, 0, 0, time.UTC), Sold: true},
		{ID: 3, Title: "Hard Drive", Description: "external usb", Price: 150, Category: "electronics", DateOfSale: time.Date(2021, 6, 15, 10, 0, 0, 0, time.UTC), Sold: false},
		{ID: 4, Title: "Monitor", Description: "curved gaming", Price: 999.2, Category: "electronics", DateOfSale: time.Date(2021, 6, 30, 23, 59, 59, 0, time.UTC), Sold: true},
		// 1 July 02:00 IST is 30 June 20:30 UTC.
		{ID: 5, Title: "Backpack", Description: "laptop bag", Price: 109.95, Category: "men's clothing", DateOfSale: time.Date(2021, 7, 1, 2, 0, 0, 0, ist), Sold: false},
		{ID: 6, Title: "Jacket", Description: "rain", Price: 56.99, Category: "women's clothing", DateOfSale: time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), Sold: true},
	}
	if err := r.ReplaceAll(context.Background(), txs); err != nil {
		t.Fatalf("replace all: %v", err)
	}
}

func TestSQLiteFindByMonth(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r)
	ctx := context.Background()
	june := repo.Filter{Range: core.ResolveMonthRange(2021, 6)}

	got, err := r.Find(ctx, june, 0, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 June records, got %d: %+v", len(got), got)
	}
	if got[4].ID != 5 || got[4].DateOfSale.Location() != time.UTC {
		t.Fatalf("expected record 5 stored in UTC, got %+v", got[4])
	}

	july, _ := r.Find(ctx, repo.Filter{Range: core.ResolveMonthRange(2021, 7)}, 0, 0)
	if len(july) != 1 || july[0].ID != 6 {
		t.Fatalf("expected only record 6 in July, got %+v", july)
	}

	page, _ := r.Find(ctx, june, 2, 2)
	if len(page) != 2 || page[0].ID != 3 || page[1].ID != 4 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestSQLiteSearch(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r)
	ctx := context.Background()
	june := core.ResolveMonthRange(2021, 6)

	cases := []struct {
		search string
		want   []int64
	}{
		{"gold", []int64{2}},
		{"GAMING", []int64{4}},
		{"150", []int64{3}},
		{"100%", []int64{1}},
		{"", []int64{1, 2, 3, 4, 5}},
		{"nothing-matches", nil},
	}
	for _, tc := range cases {
		t.Run(tc.search, func(t *testing.T) {
			got, err := r.Find(ctx, repo.Filter{Range: june, Search: tc.search}, 0, 0)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("search %q: got %d records, want %v", tc.search, len(got), tc.want)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("search %q: record %d = %d, want %d", tc.search, i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSearchFoldsUnicodeLikeMemoryStore(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Title: "ÉCLAIR Lamp", Description: "brass", Price: 40, Category: "home", DateOfSale: time.Date(2021, 6, 2, 9, 0, 0, 0, time.UTC), Sold: true},
		{ID: 2, Title: "Desk", Description: "STRAẞE edition", Price: 80, Category: "home", DateOfSale: time.Date(2021, 6, 4, 9, 0, 0, 0, time.UTC), Sold: false},
		{ID: 3, Title: "Chair", Description: "plain", Price: 30, Category: "home", DateOfSale: time.Date(2021, 6, 6, 9, 0, 0, 0, time.UTC), Sold: true},
	}
	sqlite := newTestRepo(t)
	if err := sqlite.ReplaceAll(context.Background(), txs); err != nil {
		t.Fatalf("replace all: %v", err)
	}
	mem := memory.New(txs...)
	june := core.ResolveMonthRange(2021, 6)

	for _, search := range []string{"éclair", "Éclair", "straße", "LAMP", "chair"} {
		t.Run(search, func(t *testing.T) {
			f := repo.Filter{Range: june, Search: search}
			fromSQLite, err := sqlite.Count(context.Background(), f)
			if err != nil {
				t.Fatalf("sqlite count: %v", err)
			}
			fromMemory, _ := mem.Count(context.Background(), f)
			if fromSQLite != 1 || fromMemory != 1 {
				t.Fatalf("search %q: sqlite=%d memory=%d, want 1 each", search, fromSQLite, fromMemory)
			}
		})
	}
}

func TestZeroFilterSelectsEverything(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r)

	n, err := r.Count(context.Background(), repo.Filter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 6 {
		t.Fatalf("zero filter count = %d, want 6", n)
	}
}

func TestSQLiteAggregates(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r)
	ctx := context.Background()
	june := core.ResolveMonthRange(2021, 6)

	sold, err := r.Count(ctx, repo.Filter{Range: june, Sold: repo.SoldOnly()})
	if err != nil || sold != 3 {
		t.Fatalf("sold count = %d, %v; want 3", sold, err)
	}
	unsold, err := r.Count(ctx, repo.Filter{Range: june, Sold: repo.UnsoldOnly()})
	if err != nil || unsold != 2 {
		t.Fatalf("unsold count = %d, %v; want 2", unsold, err)
	}

	total, err := r.Sum(ctx, repo.FieldPrice, repo.Filter{Range: june, Sold: repo.SoldOnly()})
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total.String() != "1149.3" {
		t.Fatalf("sum = %s, want 1149.3", total)
	}

	empty, err := r.Sum(ctx, repo.FieldPrice, repo.Filter{Range: core.ResolveMonthRange(2021, 1), Sold: repo.SoldOnly()})
	if err != nil || !empty.IsZero() {
		t.Fatalf("empty sum = %s, %v; want 0", empty, err)
	}

	groups, err := r.GroupByCategory(ctx, repo.Filter{Range: june})
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	want := []core.CategoryCount{
		{Category: "electronics", Count: 2},
		{Category: "jewelery", Count: 1},
		{Category: "men's clothing", Count: 2},
	}
	if len(groups) != len(want) {
		t.Fatalf("groups = %+v, want %+v", groups, want)
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Fatalf("group %d = %+v, want %+v", i, groups[i], want[i])
		}
	}
}

func TestSQLiteReplaceAllIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r)
	seed(t, r)

	n, err := r.Count(context.Background(), repo.Filter{})
	if err != nil || n != 6 {
		t.Fatalf("count after reseed = %d, %v; want 6", n, err)
	}
}

func TestSQLiteRejectsNegativePrice(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r)

	err := r.ReplaceAll(context.Background(), []core.Transaction{
		{ID: 1, Price: -1, DateOfSale: time.Now()},
	})
	if err == nil {
		t.Fatalf("expected constraint violation")
	}

	n, _ := r.Count(context.Background(), repo.Filter{})
	if n != 6 {
		t.Fatalf("failed replace must roll back, count = %d", n)
	}
}

func TestSQLiteUnsupportedSumField(t *testing.T) {
	r := newTestRepo(t)
	if _, err := r.Sum(context.Background(), repo.Field("title"), repo.Filter{}); err == nil {
		t.Fatalf("expected error for unsupported field")
	}
}
