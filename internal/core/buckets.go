package core

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PriceBucket indexes one of the ten fixed histogram ranges.
type PriceBucket int

const (
	bucketWidth = 100
	BucketCount = 10
)

var bucketLabels = [BucketCount]string{
	"0-100",
	"101-200",
	"201-300",
	"301-400",
	"401-500",
	"501-600",
	"601-700",
	"701-800",
	"801-900",
	"901-above",
}

// Bucketize maps a non-negative price to its bucket. Upper bounds are
// inclusive: 100 is in "0-100", 100.01 in "101-200", anything above 900 in
// "901-above".
func Bucketize(price float64) PriceBucket {
	for i := 0; i < BucketCount-1; i++ {
		if price <= float64((i+1)*bucketWidth) {
			return PriceBucket(i)
		}
	}
	return PriceBucket(BucketCount - 1)
}

func (b PriceBucket) Label() string {
	if b < 0 || int(b) >= BucketCount {
		return ""
	}
	return bucketLabels[b]
}

// BucketLabels returns the labels in ascending price order.
func BucketLabels() []string {
	out := make([]string, BucketCount)
	copy(out, bucketLabels[:])
	return out
}

// PriceHistogram counts prices per bucket. It marshals to a JSON object keyed
// by bucket label, in ascending order, with zero buckets included.
type PriceHistogram [BucketCount]int

func (h *PriceHistogram) Add(price float64) {
	h[Bucketize(price)]++
}

// Count returns the count for label, or 0 for an unknown label.
func (h PriceHistogram) Count(label string) int {
	for i, l := range bucketLabels {
		if l == label {
			return h[i]
		}
	}
	return 0
}

func (h PriceHistogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

func (h PriceHistogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range bucketLabels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(h[i]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (h *PriceHistogram) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*h = PriceHistogram{}
	for i, label := range bucketLabels {
		h[i] = m[label]
	}
	return nil
}
