package list

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"boxd/lib/letterboxd/core"
	"boxd/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/view_page.html
var viewPage string

//go:embed testdata/edit_page.html
var editPage string

const saveOk = `{"result": true, "messages": [], "filmListId": 8812301}`

func newTestClient(t *testing.T, site *testutil.Site, login bool) Client {
	t.Helper()
	ctx := context.Background()
	c, err := core.NewClient(ctx, core.ClientOptions{BaseUrl: site.URL()})
	if err != nil {
		t.Fatal(err)
	}
	if login {
		site.JSON("/user/login.do", `{"result": "success"}`)
		err = c.Login(ctx, "me", "hunter2")
		if err != nil {
			t.Fatal(err)
		}
	}
	return NewClient(c)
}

func ptr[T any](v T) *T {
	return &v
}

func savedEntries(t *testing.T, req testutil.Request) []Entry {
	t.Helper()
	var entries []Entry
	err := json.Unmarshal([]byte(req.Form["entries"][0]), &entries)
	if err != nil {
		t.Fatal(err)
	}
	return entries
}

func TestSlug(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "2020 ranked", expected: "2020-ranked"},
		{name: "1001 Movies You Must See Before You Die", expected: "1001-movies-you-must-see-before-you-die"},
		{name: "  Horror:  The Essentials ", expected: "horror-the-essentials"},
	}
	for _, test := range testCases {
		s, err := Slug(test.name)
		require.NoError(t, err)
		require.Equal(t, test.expected, s)
	}

	_, err := Slug("   ")
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestView(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/list")
	site.Page("/peterstanley/list/1001-movies-you-must-see-before-you-die/", viewPage)
	client := newTestClient(t, site, true)

	view, err := client.View(context.Background(), "peterstanley", "1001 Movies You Must See Before You Die")
	require.NoError(t, err)

	expected := Metadata{
		Owner:       "peterstanley",
		Name:        "1001 Movies You Must See Before You Die",
		Description: "The complete list from the book.\nUpdated for the 2023 edition.",
		Tags:        []string{"books", "canon"},
		Ranked:      true,
	}
	if diff := cmp.Diff(expected, view.Metadata()); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, []int64{51568, 45066, 29601}, FilmIds(view))

	var reader Reader = view
	require.Len(t, reader.Entries(), 3)
}

func TestViewOwnList(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/list")
	client := newTestClient(t, site, true)

	_, err := client.View(context.Background(), "me", "2020 ranked")
	require.ErrorIs(t, err, ErrOwnList)
}

func TestEdit(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/list")
	site.Page("/me/list/2020-ranked/edit/", editPage)

	anonymous := newTestClient(t, site, false)
	_, err := anonymous.Edit(context.Background(), "2020 ranked")
	require.ErrorIs(t, err, core.ErrNotLoggedIn)

	client := newTestClient(t, site, true)
	edit, err := client.Edit(context.Background(), "2020 ranked")
	require.NoError(t, err)

	expected := Metadata{
		Id:          ptr(int64(8812301)),
		Owner:       "me",
		Name:        "2020 ranked",
		Description: "Every 2020 release I watched, best first.",
		Tags:        []string{"2020", "ranked"},
		Public:      ptr(true),
		Ranked:      true,
	}
	if diff := cmp.Diff(expected, edit.Metadata()); diff != "" {
		t.Fatal(diff)
	}

	expectedEntries := []Entry{
		{FilmId: 426406, Review: "Saw it twice.", ContainsSpoilers: true},
		{FilmId: 543160},
		{FilmId: 475370, Review: "Short and sweet."},
	}
	if diff := cmp.Diff(expectedEntries, edit.Entries()); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, "2020-ranked", edit.Slug)
	require.Equal(t, int64(8812301), edit.Id())
}

func TestCreate(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/list")
	site.JSON("/s/save-list", saveOk)
	site.Page("/me/list/2020-ranked/edit/", editPage)
	client := newTestClient(t, site, true)

	_, err := client.Create(context.Background(), Draft{
		Name:        "2020 ranked",
		Description: "Every 2020 release I watched, best first.",
		Tags:        []string{"2020", "ranked"},
		Public:      true,
		Ranked:      true,
		Entries:     []Entry{{FilmId: 426406, Review: "Saw it twice.", ContainsSpoilers: true}},
	})
	require.NoError(t, err)

	saves := site.RequestsTo("/s/save-list")
	require.Len(t, saves, 1)
	form := saves[0].Form
	require.Equal(t, []string{testutil.CsrfToken}, form["__csrf"])
	require.Equal(t, []string{""}, form["filmListId"])
	require.Equal(t, []string{"2020 ranked"}, form["name"])
	require.Equal(t, []string{""}, form["tags"])
	require.Equal(t, []string{"2020", "ranked"}, form["tag"])
	require.Equal(t, []string{"true"}, form["publicList"])
	require.Equal(t, []string{"true"}, form["numberedList"])
	require.Equal(t, []string{"Every 2020 release I watched, best first."}, form["notes"])
	require.Equal(t, []string{`[{"filmId":426406,"review":"Saw it twice.","containsSpoilers":true}]`}, form["entries"])
}

func TestCreateRejected(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/list")
	site.JSON("/s/save-list", `{"result": false, "messages": ["Please enter a name for your list."]}`)
	client := newTestClient(t, site, true)

	_, err := client.Create(context.Background(), Draft{Name: "x"})
	var siteErr core.SiteError
	require.True(t, errors.As(err, &siteErr), err)
	require.Equal(t, []string{"Please enter a name for your list."}, siteErr.Messages)

	_, err = client.Create(context.Background(), Draft{Name: " "})
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestModifyEntries(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/list")
	site.JSON("/s/save-list", saveOk)
	site.Page("/me/list/2020-ranked/edit/", editPage)
	client := newTestClient(t, site, true)
	ctx := context.Background()

	edit, err := client.Edit(ctx, "2020 ranked")
	require.NoError(t, err)

	_, err = client.AddEntries(ctx, edit, Entry{FilmId: 543160}, Entry{FilmId: 1}, Entry{FilmId: 1})
	require.NoError(t, err)
	_, err = client.RemoveEntries(ctx, edit, 543160, 475370)
	require.NoError(t, err)
	_, err = client.ReplaceEntries(ctx, edit, []Entry{{FilmId: 7}})
	require.NoError(t, err)
	_, err = client.Update(ctx, edit, Patch{Public: ptr(false), ClearTags: true})
	require.NoError(t, err)

	saves := site.RequestsTo("/s/save-list")
	require.Len(t, saves, 4)
	for _, save := range saves {
		require.Equal(t, []string{"8812301"}, save.Form["filmListId"])
	}

	added := savedEntries(t, saves[0])
	require.Equal(t, []Entry{
		{FilmId: 426406, Review: "Saw it twice.", ContainsSpoilers: true},
		{FilmId: 543160},
		{FilmId: 475370, Review: "Short and sweet."},
		{FilmId: 1},
	}, added)

	removed := savedEntries(t, saves[1])
	require.Equal(t, []Entry{{FilmId: 426406, Review: "Saw it twice.", ContainsSpoilers: true}}, removed)

	require.Equal(t, []Entry{{FilmId: 7}}, savedEntries(t, saves[2]))

	updated := saves[3].Form
	require.Equal(t, []string{"false"}, updated["publicList"])
	require.Equal(t, []string{"true"}, updated["numberedList"])
	require.Nil(t, updated["tag"])
	require.Len(t, savedEntries(t, saves[3]), 3)
}
