package film

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"boxd/lib/htmlutil"
	"boxd/lib/ratings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrCohortUnreachable means the raters of a bucket sit too deep in the
	// listing from both ends.
	ErrCohortUnreachable = errors.New("rating cohort cannot be reached from either end of the listing")
	// ErrCohortMissing means the first page expected to hold the cohort did
	// not have it.
	ErrCohortMissing = errors.New("rating cohort not found on listing page")
)

type Rater struct {
	Username string
	// Bucket is the rating given, 1..10.
	Bucket int
}

func raterPagePath(slug string, direction ratings.Direction, page int) string {
	if direction == ratings.Ascending {
		return fmt.Sprintf("film/%s/ratings/by/entry-rating-lowest/page/%d/", slug, page)
	}
	return fmt.Sprintf("film/%s/ratings/page/%d/", slug, page)
}

// RaterPage fetches one page of the ratings listing.
func (c Client) RaterPage(ctx context.Context, slug string, direction ratings.Direction, page int) ([]Rater, error) {
	ctx, span := tracer.Start(ctx, "client:RaterPage")
	defer span.End()

	slug, err := NormalizeSlug(slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid slug")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("slug", slug),
		attribute.String("direction", direction.String()),
		attribute.Int("page", page),
	)

	doc, err := c.Core.Get(ctx, raterPagePath(slug, direction, page))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch ratings page")
		return nil, err
	}
	return parseRaters(ctx, doc), nil
}

var ratedClassRegex = regexp.MustCompile(`rated-large-(\d+)`)

func parseRaters(ctx context.Context, doc *goquery.Document) []Rater {
	raters := []Rater{}
	doc.Find(`span[class*="rated-large-"]`).Each(func(_ int, rating *goquery.Selection) {
		class, _ := rating.Attr("class")
		match := ratedClassRegex.FindStringSubmatch(class)
		if match == nil {
			return
		}
		bucket, err := strconv.Atoi(match[1])
		if err != nil {
			return
		}

		group := rating.Parent().Parent()
		for _, a := range htmlutil.GetAnchors(ctx, group.Find("a.avatar")) {
			username, ok := htmlutil.PathSegment(a.Href, "/")
			if !ok {
				continue
			}
			raters = append(raters, Rater{Username: username, Bucket: bucket})
		}
	})
	return raters
}

// CohortRaters lists up to limit usernames that rated the film `bucket`
// (1..10), limit <= 0 means the whole cohort.
func (c Client) CohortRaters(ctx context.Context, slug string, bucket, limit int) ([]string, ratings.CohortRoute, error) {
	ctx, span := tracer.Start(ctx, "client:CohortRaters")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", slug),
		attribute.Int("bucket", bucket),
		attribute.Int("limit", limit),
	)

	h, _, err := c.Histogram(ctx, slug)
	if err != nil {
		return nil, ratings.CohortRoute{}, err
	}
	route, err := ratings.Locate(h, bucket)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to locate cohort")
		return nil, ratings.CohortRoute{}, err
	}
	if !route.Reachable {
		span.SetStatus(codes.Error, ErrCohortUnreachable.Error())
		return nil, route, ErrCohortUnreachable
	}

	if limit <= 0 {
		limit = int(route.Count)
	}

	users := []string{}
	for _, page := range route.Pages() {
		if len(users) >= limit {
			break
		}

		raters, err := c.RaterPage(ctx, slug, route.Direction, page)
		if err != nil {
			return nil, route, err
		}

		found := false
		for _, r := range raters {
			if r.Bucket != bucket {
				continue
			}
			found = true
			users = append(users, r.Username)
		}
		if !found {
			if len(users) == 0 {
				err := fmt.Errorf("%w: page %d (%s)", ErrCohortMissing, page, route.Direction)
				span.RecordError(err)
				span.SetStatus(codes.Error, "cohort missing")
				return nil, route, err
			}
			break
		}
	}

	if len(users) > limit {
		users = users[:limit]
	}
	return users, route, nil
}
