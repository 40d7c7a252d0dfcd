package list

import (
	"context"
	"fmt"
	"strconv"

	"boxd/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// View is a list as anyone can see it.
type View struct {
	metadata Metadata
	entries  []Entry
}

func (v View) Metadata() Metadata {
	return v.metadata
}

func (v View) Entries() []Entry {
	return v.entries
}

func (c Client) View(ctx context.Context, owner, name string) (View, error) {
	ctx, span := tracer.Start(ctx, "client:View")
	defer span.End()

	span.SetAttributes(
		attribute.String("owner", owner),
		attribute.String("name", name),
	)

	if c.Core.LoggedIn() && owner == c.Core.Username {
		span.SetStatus(codes.Error, ErrOwnList.Error())
		return View{}, ErrOwnList
	}
	s, err := Slug(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid name")
		return View{}, err
	}

	doc, err := c.Core.Get(ctx, viewPath(owner, s))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch list page")
		return View{}, err
	}

	view, err := parseView(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse list page")
		return View{}, err
	}
	return view, nil
}

func parseView(doc *goquery.Document) (View, error) {
	body := doc.Find("body.list-page")
	owner, ok := htmlutil.Attr(body, "data-owner")
	if !ok {
		return View{}, fmt.Errorf("list page has no owner")
	}

	name, _ := htmlutil.Attr(doc.Find(`meta[property="og:title"]`), "content")
	description, _ := doc.Find(`meta[property="og:description"]`).Attr("content")

	tags := []string{}
	doc.Find("ul.tags li").Each(func(_ int, li *goquery.Selection) {
		tag := htmlutil.Text(li)
		if tag != "" {
			tags = append(tags, tag)
		}
	})

	entries := []Entry{}
	var parseErr error
	doc.Find("ul.poster-list li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		poster := li
		if _, ok := li.Attr("data-film-id"); !ok {
			poster = li.Find("[data-film-id]").First()
		}
		rawId, ok := htmlutil.Attr(poster, "data-film-id")
		if !ok {
			return true
		}
		id, err := strconv.ParseInt(rawId, 10, 64)
		if err != nil {
			parseErr = fmt.Errorf("parse film id %q: %w", rawId, err)
			return false
		}
		entries = append(entries, Entry{FilmId: id})
		return true
	})
	if parseErr != nil {
		return View{}, parseErr
	}

	return View{
		metadata: Metadata{
			Owner:       owner,
			Name:        name,
			Description: description,
			Tags:        tags,
			Ranked:      len(entries) > 0 && doc.Find("li.numbered-list-item").Length() > 0,
		},
		entries: entries,
	}, nil
}
