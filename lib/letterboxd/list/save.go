package list

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const saveListPath = "s/save-list"

// Draft is the full content of a list as it is saved.
type Draft struct {
	Name        string
	Description string
	Tags        []string
	Public      bool
	Ranked      bool
	Entries     []Entry
}

// Patch changes the fields that are set and keeps the rest.
type Patch struct {
	Name        *string
	Description *string
	Tags        []string
	// ClearTags removes all tags, a nil Tags keeps the existing ones.
	ClearTags bool
	Public    *bool
	Ranked    *bool
}

// DraftOf turns an edit view back into the content it was saved with.
func DraftOf(e Edit) Draft {
	m := e.Metadata()
	public := false
	if m.Public != nil {
		public = *m.Public
	}
	return Draft{
		Name:        m.Name,
		Description: m.Description,
		Tags:        slices.Clone(m.Tags),
		Public:      public,
		Ranked:      m.Ranked,
		Entries:     slices.Clone(e.Entries()),
	}
}

func (p Patch) apply(d Draft) Draft {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.ClearTags {
		d.Tags = nil
	}
	if p.Tags != nil {
		d.Tags = p.Tags
	}
	if p.Public != nil {
		d.Public = *p.Public
	}
	if p.Ranked != nil {
		d.Ranked = *p.Ranked
	}
	return d
}

// saveForm builds the form the site expects, id is 0 for a new list.
func saveForm(id int64, d Draft) (url.Values, error) {
	entries := d.Entries
	if entries == nil {
		entries = []Entry{}
	}
	encoded, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	if id == 0 {
		form.Set("filmListId", "")
	} else {
		form.Set("filmListId", strconv.FormatInt(id, 10))
	}
	form.Set("name", d.Name)
	form.Set("tags", "")
	for _, tag := range d.Tags {
		form.Add("tag", tag)
	}
	form.Set("publicList", strconv.FormatBool(d.Public))
	form.Set("numberedList", strconv.FormatBool(d.Ranked))
	form.Set("notes", d.Description)
	form.Set("entries", string(encoded))
	return form, nil
}

func (c Client) save(ctx context.Context, id int64, d Draft) error {
	ctx, span := tracer.Start(ctx, "save")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("list_id", id),
		attribute.String("name", d.Name),
		attribute.Int("entries", len(d.Entries)),
	)

	err := c.Core.RequireLogin()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	_, err = Slug(d.Name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	form, err := saveForm(id, d)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode entries")
		return err
	}
	_, err = c.Core.PostJSONResult(ctx, saveListPath, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save list")
		return err
	}
	return nil
}

// Create saves a new list and loads it back from its edit page.
func (c Client) Create(ctx context.Context, d Draft) (Edit, error) {
	ctx, span := tracer.Start(ctx, "client:Create")
	defer span.End()

	err := c.save(ctx, 0, d)
	if err != nil {
		return Edit{}, err
	}
	return c.Edit(ctx, d.Name)
}

func (c Client) saveDraft(ctx context.Context, e Edit, d Draft) (Edit, error) {
	err := c.save(ctx, e.Id(), d)
	if err != nil {
		return Edit{}, err
	}
	return c.Edit(ctx, d.Name)
}

// Update changes the metadata of a list and keeps its entries.
func (c Client) Update(ctx context.Context, e Edit, p Patch) (Edit, error) {
	ctx, span := tracer.Start(ctx, "client:Update")
	defer span.End()

	return c.saveDraft(ctx, e, p.apply(DraftOf(e)))
}

// AddEntries appends entries whose film is not on the list yet.
func (c Client) AddEntries(ctx context.Context, e Edit, entries ...Entry) (Edit, error) {
	ctx, span := tracer.Start(ctx, "client:AddEntries")
	defer span.End()

	d := DraftOf(e)
	present := map[int64]bool{}
	for _, existing := range d.Entries {
		present[existing.FilmId] = true
	}
	for _, entry := range entries {
		if present[entry.FilmId] {
			continue
		}
		present[entry.FilmId] = true
		d.Entries = append(d.Entries, entry)
	}
	return c.saveDraft(ctx, e, d)
}

// RemoveEntries drops every entry for the given films.
func (c Client) RemoveEntries(ctx context.Context, e Edit, filmIds ...int64) (Edit, error) {
	ctx, span := tracer.Start(ctx, "client:RemoveEntries")
	defer span.End()

	d := DraftOf(e)
	d.Entries = slices.DeleteFunc(d.Entries, func(entry Entry) bool {
		return slices.Contains(filmIds, entry.FilmId)
	})
	return c.saveDraft(ctx, e, d)
}

// ReplaceEntries swaps the entries of a list for new ones.
func (c Client) ReplaceEntries(ctx context.Context, e Edit, entries []Entry) (Edit, error) {
	ctx, span := tracer.Start(ctx, "client:ReplaceEntries")
	defer span.End()

	d := DraftOf(e)
	d.Entries = slices.Clone(entries)
	return c.saveDraft(ctx, e, d)
}
