// Package search pages through the site's film browsing views.
package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"boxd/lib/htmlutil"
	"boxd/lib/letterboxd/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("boxd/lib/letterboxd/search")

// FirstYear is the earliest release year the site catalogues.
const FirstYear = 1870

// currentYear is replaced in tests.
var currentYear = func() int {
	return time.Now().Year()
}

// LastYear is the latest release year a search accepts.
func LastYear() int {
	return currentYear() + 5
}

type Film struct {
	Id   int64
	Slug string
}

type Client struct {
	Core *core.Client
}

func NewClient(c *core.Client) Client {
	return Client{Core: c}
}

// parseFilms reads the poster grid shared by the browsing views.
func parseFilms(doc *goquery.Document) ([]Film, error) {
	films := []Film{}
	var parseErr error
	doc.Find("li.poster-container div[data-film-id]").EachWithBreak(func(_ int, poster *goquery.Selection) bool {
		rawId, _ := htmlutil.Attr(poster, "data-film-id")
		id, err := strconv.ParseInt(rawId, 10, 64)
		if err != nil {
			parseErr = fmt.Errorf("parse film id %q: %w", rawId, err)
			return false
		}
		film := Film{Id: id}
		if link, ok := htmlutil.Attr(poster, "data-film-link"); ok {
			film.Slug, _ = htmlutil.PathSegment(link, "/film/")
		} else if slug, ok := htmlutil.Attr(poster, "data-film-slug"); ok {
			film.Slug = slug
		}
		films = append(films, film)
		return true
	})
	return films, parseErr
}

// Genres lists the genre names films can be browsed by.
func (c Client) Genres(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:Genres")
	defer span.End()

	doc, err := c.Core.Get(ctx, "films/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch films page")
		return nil, err
	}

	genres := []string{}
	doc.Find(`a.item[href*="/films/genre/"]`).Each(func(_ int, a *goquery.Selection) {
		name := htmlutil.Text(a)
		if name != "" {
			genres = append(genres, name)
		}
	})
	return genres, nil
}
