package ratings

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLocateInvalidBucket(t *testing.T) {
	h := MustHistogram(1, 1, 1, 1, 1, 1, 1, 1, 1, 1)
	for _, bucket := range []int{-1, 0, 11, 100} {
		_, err := Locate(h, bucket)
		require.True(t, errors.Is(err, ErrInvalidBucket), "bucket %d: %v", bucket, err)
	}
}

func TestLocate(t *testing.T) {
	testCases := []struct {
		name      string
		histogram Histogram
		bucket    int
		expect    CohortRoute
	}{
		{
			name:      "buried middle cohort",
			histogram: MustHistogram(5000, 0, 0, 0, 0, 0, 0, 0, 0, 5000),
			bucket:    5,
			expect:    CohortRoute{},
		},
		{
			name:      "lowest bucket goes ascending",
			histogram: MustHistogram(10, 10, 10, 10, 10, 10, 10, 10, 10, 10),
			bucket:    1,
			expect: CohortRoute{
				Reachable: true,
				Direction: Ascending,
				PageStart: 1,
				PageEnd:   1,
				Skip:      0,
				Count:     10,
			},
		},
		{
			name:      "highest bucket goes descending",
			histogram: MustHistogram(10, 10, 10, 10, 10, 10, 10, 10, 10, 10),
			bucket:    10,
			expect: CohortRoute{
				Reachable: true,
				Direction: Descending,
				PageStart: 1,
				PageEnd:   1,
				Skip:      0,
				Count:     10,
			},
		},
		{
			name:      "tie prefers descending",
			histogram: MustHistogram(600, 0, 0, 0, 50, 0, 0, 0, 0, 600),
			bucket:    5,
			expect: CohortRoute{
				Reachable: true,
				Direction: Descending,
				PageStart: 2,
				PageEnd:   2,
				Skip:      600,
				Count:     50,
			},
		},
		{
			name:      "one side past the ceiling",
			histogram: MustHistogram(100, 0, 0, 700, 0, 0, 0, 0, 0, 9000),
			bucket:    4,
			expect: CohortRoute{
				Reachable: true,
				Direction: Ascending,
				PageStart: 1,
				PageEnd:   2,
				Skip:      100,
				Count:     700,
			},
		},
		{
			name:      "page end clamps to limit",
			histogram: MustHistogram(6000, 0, 0, 0, 0, 0, 0, 0, 8000, 4800),
			bucket:    9,
			expect: CohortRoute{
				Reachable: true,
				Direction: Descending,
				PageStart: 10,
				PageEnd:   10,
				Skip:      4800,
				Count:     8000,
			},
		},
		{
			name:      "empty cohort is still routed",
			histogram: MustHistogram(0, 0, 0, 0, 0, 0, 0, 0, 0, 0),
			bucket:    6,
			expect: CohortRoute{
				Reachable: true,
				Direction: Descending,
				PageStart: 1,
				PageEnd:   1,
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			route, err := Locate(test.histogram, test.bucket)
			require.NoError(t, err)
			require.Empty(t, cmp.Diff(test.expect, route))

			again, err := Locate(test.histogram, test.bucket)
			require.NoError(t, err)
			require.Equal(t, route, again)
		})
	}
}

func TestCohortRoutePages(t *testing.T) {
	require.Nil(t, CohortRoute{}.Pages())
	require.Equal(t, []int{3, 4, 5}, CohortRoute{Reachable: true, PageStart: 3, PageEnd: 5}.Pages())
}

func TestDirectionString(t *testing.T) {
	require.Equal(t, "descending", Descending.String())
	require.Equal(t, "ascending", Ascending.String())
}

func checkRouteInvariants(t *testing.T, h Histogram, bucket int) {
	route, err := Locate(h, bucket)
	if err != nil {
		t.Fatal(err)
	}
	counts := h.Counts()
	var lower, higher int64
	for i, c := range counts {
		if i < bucket-1 {
			lower += c
		}
		if i > bucket-1 {
			higher += c
		}
	}

	if !route.Reachable {
		if lower < MaxEnumerable || higher < MaxEnumerable {
			t.Fatalf("reachable cohort reported unreachable: %v bucket %d", counts, bucket)
		}
		return
	}
	if route.Skip > MaxEnumerable {
		t.Fatalf("skip %d past ceiling: %v bucket %d", route.Skip, counts, bucket)
	}
	if route.Skip != min(lower, higher) {
		t.Fatalf("skip %d is not the shorter side: %v bucket %d", route.Skip, counts, bucket)
	}
	if route.PageStart < 1 || route.PageEnd > PageLimit || route.PageStart > route.PageEnd {
		t.Fatalf("bad page range %d-%d: %v bucket %d", route.PageStart, route.PageEnd, counts, bucket)
	}
}

func TestLocateRandomHistograms(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		remaining := int64(rng.Intn(10001))
		counts := make([]int64, BucketCount)
		for remaining > 0 {
			take := rng.Int63n(remaining + 1)
			counts[rng.Intn(BucketCount)] += take
			remaining -= take
		}
		h, err := NewHistogram(counts)
		require.NoError(t, err)
		checkRouteInvariants(t, h, rng.Intn(BucketCount)+1)
	}
}

func FuzzLocate(f *testing.F) {
	f.Add(uint16(5000), uint16(0), uint16(0), uint16(0), uint16(0), uint16(0), uint16(0), uint16(0), uint16(0), uint16(5000), uint8(5))
	f.Add(uint16(10), uint16(10), uint16(10), uint16(10), uint16(10), uint16(10), uint16(10), uint16(10), uint16(10), uint16(10), uint8(1))

	f.Fuzz(func(t *testing.T, c0, c1, c2, c3, c4, c5, c6, c7, c8, c9 uint16, bucket uint8) {
		h := MustHistogram(
			int64(c0), int64(c1), int64(c2), int64(c3), int64(c4),
			int64(c5), int64(c6), int64(c7), int64(c8), int64(c9),
		)
		checkRouteInvariants(t, h, int(bucket%BucketCount)+1)
	})
}
