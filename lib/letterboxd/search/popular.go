package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"boxd/lib/htmlutil"
	"boxd/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PopularPerPage is the number of posters on one page of the popular view.
const PopularPerPage = 72

var ErrInvalidSearch = errors.New("invalid search")

// Popular browses films by popularity, optionally narrowed to a genre and
// a year or decade.
type Popular struct {
	Genre  string
	Decade int
	Year   int
	// PageLimit caps the pages fetched, 0 fetches all of them.
	PageLimit int
}

func (p Popular) Validate() error {
	if p.Year != 0 && p.Decade != 0 {
		return fmt.Errorf("%w: cannot search by both decade and year", ErrInvalidSearch)
	}
	if p.Year != 0 && (p.Year < FirstYear || p.Year > LastYear()) {
		return fmt.Errorf("%w: year %d is not within %d-%d", ErrInvalidSearch, p.Year, FirstYear, LastYear())
	}
	if p.Decade != 0 && (p.Decade%10 != 0 || p.Decade < FirstYear || p.Decade > LastYear()) {
		return fmt.Errorf("%w: invalid decade %d", ErrInvalidSearch, p.Decade)
	}
	if p.PageLimit < 0 {
		return fmt.Errorf("%w: negative page limit", ErrInvalidSearch)
	}
	return nil
}

// Path is the listing path, page segments are appended to it.
func (p Popular) Path() string {
	var path strings.Builder
	path.WriteString("films/ajax/popular/")
	switch {
	case p.Year != 0:
		fmt.Fprintf(&path, "year/%d/", p.Year)
	case p.Decade != 0:
		fmt.Fprintf(&path, "decade/%ds/", p.Decade)
	}
	if p.Genre != "" {
		fmt.Fprintf(&path, "genre/%s/", strings.ToLower(p.Genre))
	}
	path.WriteString("size/small/")
	return path.String()
}

// Pages counts the pages of the listing.
func (c Client) Pages(ctx context.Context, p Popular) (int, error) {
	ctx, span := tracer.Start(ctx, "client:Pages")
	defer span.End()

	doc, err := c.Core.Get(ctx, p.Path())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing")
		return 0, err
	}
	heading := htmlutil.Text(doc.Find("h2.ui-block-heading"))
	count, ok := textutil.ParseFirstCount(heading)
	if !ok {
		err := fmt.Errorf("no film count in heading %q", heading)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return int(count/PopularPerPage) + 1, nil
}

// Popular returns the films of every page of the listing, up to PageLimit.
func (c Client) Popular(ctx context.Context, p Popular) ([]Film, error) {
	ctx, span := tracer.Start(ctx, "client:Popular")
	defer span.End()

	span.SetAttributes(attribute.String("path", p.Path()))

	err := p.Validate()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	pages, err := c.Pages(ctx, p)
	if err != nil {
		return nil, err
	}
	if p.PageLimit > 0 {
		pages = min(pages, p.PageLimit)
	}
	slog.DebugContext(ctx, "searching popular films", "path", p.Path(), "pages", pages)

	films := []Film{}
	for page := 1; page <= pages; page++ {
		doc, err := c.Core.Get(ctx, fmt.Sprintf("%spage/%d/", p.Path(), page))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch page")
			return nil, err
		}
		pageFilms, err := parseFilms(doc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse page")
			return nil, err
		}
		films = append(films, pageFilms...)
	}
	return films, nil
}
