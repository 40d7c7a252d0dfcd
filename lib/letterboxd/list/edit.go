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

// Edit is a list of the session user as shown on its edit page.
type Edit struct {
	Slug string

	metadata Metadata
	entries  []Entry
}

func (e Edit) Metadata() Metadata {
	return e.metadata
}

func (e Edit) Entries() []Entry {
	return e.entries
}

// Id is the list id, it is always present on an edit page.
func (e Edit) Id() int64 {
	if e.metadata.Id == nil {
		return 0
	}
	return *e.metadata.Id
}

// Edit loads a list owned by the session user.
func (c Client) Edit(ctx context.Context, name string) (Edit, error) {
	ctx, span := tracer.Start(ctx, "client:Edit")
	defer span.End()

	span.SetAttributes(attribute.String("name", name))

	err := c.Core.RequireLogin()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Edit{}, err
	}
	s, err := Slug(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid name")
		return Edit{}, err
	}

	doc, err := c.Core.Get(ctx, editPath(c.Core.Username, s))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch list edit page")
		return Edit{}, err
	}

	edit, err := parseEdit(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse list edit page")
		return Edit{}, err
	}
	edit.Slug = s
	edit.metadata.Owner = c.Core.Username
	return edit, nil
}

func parseEdit(doc *goquery.Document) (Edit, error) {
	rawId, ok := htmlutil.Attr(doc.Find("input[name=filmListId]"), "value")
	if !ok || rawId == "" {
		return Edit{}, fmt.Errorf("edit page has no list id")
	}
	id, err := strconv.ParseInt(rawId, 10, 64)
	if err != nil {
		return Edit{}, fmt.Errorf("parse list id %q: %w", rawId, err)
	}

	name, _ := htmlutil.Attr(doc.Find("input[name=name]"), "value")

	tags := []string{}
	doc.Find("input[name=tag]").Each(func(_ int, input *goquery.Selection) {
		tag, _ := htmlutil.Attr(input, "value")
		if tag != "" {
			tags = append(tags, tag)
		}
	})

	public := doc.Find("#list-is-public[checked]").Length() > 0

	entries := []Entry{}
	var parseErr error
	doc.Find("li.film-list-entry").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		rawFilmId, _ := htmlutil.Attr(li, "data-film-id")
		filmId, err := strconv.ParseInt(rawFilmId, 10, 64)
		if err != nil {
			parseErr = fmt.Errorf("parse film id %q: %w", rawFilmId, err)
			return false
		}
		entry := Entry{FilmId: filmId}
		entry.Review, _ = li.Find("input[name=review]").Attr("value")
		if entry.Review != "" {
			entry.ContainsSpoilers = li.Find(`input[name=containsSpoilers][value=true]`).Length() > 0
		}
		entries = append(entries, entry)
		return true
	})
	if parseErr != nil {
		return Edit{}, parseErr
	}

	return Edit{
		metadata: Metadata{
			Id:          &id,
			Name:        name,
			Description: doc.Find("textarea[name=notes]").Text(),
			Tags:        tags,
			Public:      &public,
			Ranked:      doc.Find("#show-item-numbers[checked]").Length() > 0,
		},
		entries: entries,
	}, nil
}
