// Package ratings holds the pure numeric core of the scraper: the rating
// histogram, the obscure-film estimator and the rating cohort locator.
package ratings

import (
	"errors"
	"fmt"
	"math"
)

// BucketCount is the number of half-star buckets, 0.5 through 5.0.
const BucketCount = 10

// MaxTotal is the largest rating count a histogram holds, the weighted sum
// of any histogram under it fits an int64.
const MaxTotal = math.MaxInt64 / BucketCount

var ErrInvalidHistogram = errors.New("invalid rating histogram")

// Histogram is the per-bucket rating count of a single film. Index 0 is the
// 0.5 star bucket, index 9 the 5.0 star bucket. It is immutable once built.
type Histogram struct {
	counts [BucketCount]int64
}

func NewHistogram(counts []int64) (Histogram, error) {
	if len(counts) != BucketCount {
		return Histogram{}, fmt.Errorf(
			"%w: expected %d buckets, got %d",
			ErrInvalidHistogram, BucketCount, len(counts),
		)
	}
	var h Histogram
	var total int64
	for i, c := range counts {
		if c < 0 {
			return Histogram{}, fmt.Errorf(
				"%w: bucket %d has negative count %d",
				ErrInvalidHistogram, i+1, c,
			)
		}
		if c > MaxTotal-total {
			return Histogram{}, fmt.Errorf(
				"%w: total exceeds %d ratings",
				ErrInvalidHistogram, int64(MaxTotal),
			)
		}
		total += c
		h.counts[i] = c
	}
	return h, nil
}

// MustHistogram is NewHistogram for literals known to be valid.
func MustHistogram(counts ...int64) Histogram {
	h, err := NewHistogram(counts)
	if err != nil {
		panic(err)
	}
	return h
}

func (h Histogram) Counts() [BucketCount]int64 {
	return h.counts
}

// Count returns the number of ratings in bucket 1..10, and 0 for any other bucket.
func (h Histogram) Count(bucket int) int64 {
	if bucket < 1 || bucket > BucketCount {
		return 0
	}
	return h.counts[bucket-1]
}

func (h Histogram) Total() int64 {
	var total int64
	for _, c := range h.counts {
		total += c
	}
	return total
}

// WeightedSum sums bucket value times count, where bucket values are on the
// site's ten point scale (0.5 stars = 1, 5.0 stars = 10).
func (h Histogram) WeightedSum() int64 {
	var sum int64
	for i, c := range h.counts {
		sum += int64(i+1) * c
	}
	return sum
}

func (h Histogram) sum(from, to int) int64 {
	var total int64
	for _, c := range h.counts[from:to] {
		total += c
	}
	return total
}

// Stars converts a bucket (1..10) to its star value (0.5..5.0).
func Stars(bucket int) float64 {
	return float64(bucket) / 2
}
