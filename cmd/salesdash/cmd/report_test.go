package cmd

import (
	"bytes"
	"strings"
	"testing"

	"salesdash/internal/core"
)

func TestWriteTextReport(t *testing.T) {
	var h core.PriceHistogram
	h.Add(50)
	h.Add(999)
	report := core.CombinedReport{
		Transactions: []core.Transaction{
			{ID: 1, Title: "Gold Ring", Price: 50, Category: "jewelery", Sold: true},
		},
		Statistics: core.Statistics{TotalSaleAmount: 1049, TotalSoldItems: 2},
		BarChart:   h,
		PieChart:   []core.CategoryCount{{Category: "jewelery", Count: 2}},
		Range:      core.ResolveMonthRange(2021, 6),
	}

	var buf bytes.Buffer
	if err := writeTextReport(&buf, 6, report); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Month 06", "1049.00", "Gold Ring", "0-100", "901-above", "jewelery"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "0-100") > strings.Index(out, "901-above") {
		t.Errorf("buckets out of order")
	}
}
