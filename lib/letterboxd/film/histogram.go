package film

import (
	"context"
	"fmt"

	"boxd/lib/htmlutil"
	"boxd/lib/ratings"
	"boxd/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Histogram fetches the rating spread of a film, ok is false for films
// nobody has rated.
func (c Client) Histogram(ctx context.Context, slug string) (ratings.Histogram, bool, error) {
	ctx, span := tracer.Start(ctx, "client:Histogram")
	defer span.End()

	slug, err := NormalizeSlug(slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid slug")
		return ratings.Histogram{}, false, err
	}
	span.SetAttributes(attribute.String("slug", slug))

	doc, err := c.Core.Get(ctx, fmt.Sprintf("csi/film/%s/rating-histogram/", slug))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch histogram")
		return ratings.Histogram{}, false, err
	}

	h, ok, err := parseHistogram(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse histogram")
		return ratings.Histogram{}, false, err
	}
	return h, ok, nil
}

func parseHistogram(doc *goquery.Document) (ratings.Histogram, bool, error) {
	bars := doc.Find("li.rating-histogram-bar")
	if bars.Length() == 0 {
		return ratings.Histogram{}, false, nil
	}
	if bars.Length() != ratings.BucketCount {
		return ratings.Histogram{}, false, fmt.Errorf(
			"expected %d histogram bars, got %d",
			ratings.BucketCount, bars.Length(),
		)
	}

	counts := make([]int64, 0, ratings.BucketCount)
	var parseErr error
	bars.EachWithBreak(func(i int, bar *goquery.Selection) bool {
		link := bar.Find("a").First()
		if link.Length() == 0 {
			counts = append(counts, 0)
			return true
		}
		title, _ := htmlutil.Attr(link, "title")
		n, ok := textutil.ParseLeadingCount(title)
		if !ok {
			parseErr = fmt.Errorf("histogram bar %d: no count in title %q", i+1, title)
			return false
		}
		counts = append(counts, n)
		return true
	})
	if parseErr != nil {
		return ratings.Histogram{}, false, parseErr
	}

	h, err := ratings.NewHistogram(counts)
	if err != nil {
		return ratings.Histogram{}, false, err
	}
	return h, h.Total() > 0, nil
}
