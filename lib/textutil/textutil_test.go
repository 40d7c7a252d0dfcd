package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLeadingCount(t *testing.T) {
	testCases := []struct {
		in    string
		count int64
		ok    bool
	}{
		{in: "1,234 ★★★ ratings (12%)", count: 1234, ok: true},
		{in: "  7 half-★ ratings", count: 7, ok: true},
		{in: "No ratings", ok: false},
		{in: ", 12", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			count, ok := ParseLeadingCount(tc.in)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.count, count)
		})
	}
}

func TestParseFirstCount(t *testing.T) {
	testCases := []struct {
		in    string
		count int64
		ok    bool
	}{
		{in: "There are 1,024 films", count: 1024, ok: true},
		{in: "108 mins   More at IMDb", count: 108, ok: true},
		{in: "a, b, 12", count: 12, ok: true},
		{in: "no digits", ok: false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			count, ok := ParseFirstCount(tc.in)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.count, count)
		})
	}
}
