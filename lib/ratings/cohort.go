package ratings

import (
	"errors"
	"fmt"
)

const (
	// PageLimit is how deep the ratings listing can be paged in either direction.
	PageLimit = 10
	// PerPage is the number of raters shown on one listing page.
	PerPage = 500
	// MaxEnumerable is the number of raters reachable from one end of the listing.
	MaxEnumerable = PageLimit * PerPage
)

var ErrInvalidBucket = errors.New("invalid rating bucket")

type Direction int

const (
	// Descending lists the highest ratings first.
	Descending Direction = iota
	// Ascending lists the lowest ratings first.
	Ascending
)

func (d Direction) String() string {
	switch d {
	case Descending:
		return "descending"
	case Ascending:
		return "ascending"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// CohortRoute says which listing pages, in which sort order, hold every rater
// of one bucket. A cohort buried under MaxEnumerable raters on both sides
// cannot be paged to and is returned with Reachable unset.
type CohortRoute struct {
	Reachable bool
	Direction Direction
	PageStart int
	PageEnd   int

	// Skip is the number of raters listed before the cohort in Direction.
	Skip int64
	// Count is the size of the cohort.
	Count int64
}

// Pages lists the pages to fetch, in order.
func (r CohortRoute) Pages() []int {
	if !r.Reachable || r.PageEnd < r.PageStart {
		return nil
	}
	pages := make([]int, 0, r.PageEnd-r.PageStart+1)
	for p := r.PageStart; p <= r.PageEnd; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Locate finds the cheapest route to the raters of bucket (1..10).
func Locate(h Histogram, bucket int) (CohortRoute, error) {
	if bucket < 1 || bucket > BucketCount {
		return CohortRoute{}, fmt.Errorf(
			"%w: %d is not within 1-%d",
			ErrInvalidBucket, bucket, BucketCount,
		)
	}

	lower := h.sum(0, bucket-1)
	higher := h.sum(bucket, BucketCount)
	count := h.Count(bucket)

	if lower >= MaxEnumerable && higher >= MaxEnumerable {
		return CohortRoute{Count: count}, nil
	}

	route := CohortRoute{Reachable: true, Count: count}
	if higher <= lower {
		route.Direction = Descending
		route.Skip = higher
	} else {
		route.Direction = Ascending
		route.Skip = lower
	}

	route.PageStart = int(route.Skip/PerPage) + 1
	route.PageEnd = int((route.Skip+count)/PerPage) + 1
	if route.PageEnd > PageLimit {
		route.PageEnd = PageLimit
	}
	return route, nil
}
