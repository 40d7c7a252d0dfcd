// Package film scrapes film pages, rating histograms and rater listings.
package film

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"boxd/lib/letterboxd/core"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("boxd/lib/letterboxd/film")

var ErrInvalidSlug = errors.New("invalid film slug")

type Client struct {
	Core *core.Client
}

func NewClient(c *core.Client) Client {
	return Client{Core: c}
}

var slugRegex = regexp.MustCompile(`^(?:/?film/)?([\w-]+)/?$`)

// NormalizeSlug accepts "black-swan", "/film/black-swan/" or "Black Swan"
// and returns "black-swan".
func NormalizeSlug(s string) (string, error) {
	s = strings.TrimSpace(s)
	s = strings.ToLower(strings.Join(strings.Fields(s), "-"))
	match := slugRegex.FindStringSubmatch(s)
	if match == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, s)
	}
	return match[1], nil
}

func filmPath(slug string) string {
	return fmt.Sprintf("film/%s/", slug)
}
