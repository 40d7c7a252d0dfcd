package film

import (
	"context"
	"fmt"
	"strconv"

	"boxd/lib/htmlutil"
	"boxd/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Info struct {
	Id        int64
	Slug      string
	Name      string
	PosterUrl string

	ReleaseYear    *int
	RuntimeMinutes *int
	Language       *string
	Country        *string
	Director       *string
	Genres         []string
	Cast           []string
}

func (c Client) Info(ctx context.Context, slug string) (Info, error) {
	ctx, span := tracer.Start(ctx, "client:Info")
	defer span.End()

	slug, err := NormalizeSlug(slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid slug")
		return Info{}, err
	}
	span.SetAttributes(attribute.String("slug", slug))

	doc, err := c.Core.Get(ctx, filmPath(slug))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch film page")
		return Info{}, err
	}

	info, err := parseInfo(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse film page")
		return Info{}, err
	}
	info.Slug = slug
	return info, nil
}

// segmentAfter finds the first link under sel whose path starts with prefix
// and returns the path segment after it.
func segmentAfter(ctx context.Context, sel *goquery.Selection, prefix string) *string {
	for _, a := range htmlutil.GetAnchors(ctx, sel.Find(fmt.Sprintf(`a[href*="%s"]`, prefix))) {
		segment, ok := htmlutil.PathSegment(a.Href, prefix)
		if ok {
			return &segment
		}
	}
	return nil
}

func parseInfo(ctx context.Context, doc *goquery.Document) (Info, error) {
	wrapper := doc.Find("div#film-page-wrapper")
	if wrapper.Length() == 0 {
		return Info{}, fmt.Errorf("film page wrapper not found")
	}

	poster := wrapper.Find("div.film-poster").First()
	rawId, ok := htmlutil.Attr(poster, "data-film-id")
	if !ok {
		return Info{}, fmt.Errorf("film poster has no data-film-id")
	}
	id, err := strconv.ParseInt(rawId, 10, 64)
	if err != nil {
		return Info{}, fmt.Errorf("parse film id %q: %w", rawId, err)
	}

	info := Info{
		Id:     id,
		Genres: []string{},
		Cast:   []string{},
	}
	info.Name, _ = htmlutil.Attr(poster, "data-film-name")
	info.PosterUrl, _ = htmlutil.Attr(poster, "data-poster-url")

	if rawYear, ok := htmlutil.Attr(poster, "data-film-release-year"); ok {
		year, err := strconv.Atoi(rawYear)
		if err == nil {
			info.ReleaseYear = &year
		}
	}

	details := wrapper.Find("#tab-details")
	info.Language = segmentAfter(ctx, details, "/films/language/")
	info.Country = segmentAfter(ctx, details, "/films/country/")

	genreLinks := wrapper.Find(`#tab-genres a.text-slug[href*="/films/genre/"]`)
	for _, a := range htmlutil.GetAnchors(ctx, genreLinks) {
		genre, ok := htmlutil.PathSegment(a.Href, "/films/genre/")
		if ok {
			info.Genres = append(info.Genres, genre)
		}
	}

	for _, a := range htmlutil.GetAnchors(ctx, wrapper.Find("#tab-cast .cast-list a")) {
		if a.Name != "" {
			info.Cast = append(info.Cast, a.Name)
		}
	}

	director := htmlutil.Text(wrapper.Find(`#featured-film-header a[href*="director"]`))
	if director != "" {
		info.Director = &director
	}

	footer := htmlutil.Text(wrapper.Find("p.text-link.text-footer"))
	if minutes, ok := textutil.ParseFirstCount(footer); ok {
		runtime := int(minutes)
		info.RuntimeMinutes = &runtime
	}

	return info, nil
}
