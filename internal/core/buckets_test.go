package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBucketizeBoundaries(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{0, "0-100"},
		{99.99, "0-100"},
		{100, "0-100"},
		{100.01, "101-200"},
		{200, "101-200"},
		{300, "201-300"},
		{400, "301-400"},
		{500, "401-500"},
		{600, "501-600"},
		{700, "601-700"},
		{800, "701-800"},
		{900, "801-900"},
		{900.5, "901-above"},
		{1e9, "901-above"},
	}
	for _, tc := range cases {
		if got := Bucketize(tc.price).Label(); got != tc.want {
			t.Errorf("Bucketize(%v) = %q, want %q", tc.price, got, tc.want)
		}
	}
}

func TestBucketizeIsTotal(t *testing.T) {
	for p := 0.0; p <= 1200; p += 0.25 {
		b := Bucketize(p)
		if b < 0 || int(b) >= BucketCount {
			t.Fatalf("price %v mapped outside the table: %d", p, b)
		}
	}
}

func TestPriceHistogram(t *testing.T) {
	var h PriceHistogram
	for _, p := range []float64{50, 100, 150, 999} {
		h.Add(p)
	}

	want := map[string]int{"0-100": 2, "101-200": 1, "901-above": 1}
	for _, label := range BucketLabels() {
		if got := h.Count(label); got != want[label] {
			t.Errorf("bucket %s = %d, want %d", label, got, want[label])
		}
	}
	if h.Total() != 4 {
		t.Fatalf("total = %d, want 4", h.Total())
	}
}

func TestPriceHistogramJSONKeepsBucketOrder(t *testing.T) {
	var h PriceHistogram
	h.Add(950)

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.HasPrefix(s, `{"0-100":0,"101-200":0`) || !strings.HasSuffix(s, `"901-above":1}`) {
		t.Fatalf("unexpected histogram json: %s", s)
	}

	var back PriceHistogram
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != h {
		t.Fatalf("round trip mismatch: %v vs %v", back, h)
	}
}
