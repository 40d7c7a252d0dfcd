package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const anchorsPage = `<html><body>
<ul>
	<li><a href="/film/alien/">  Alien
		(1979) </a></li>
	<li><a href="/film/heat-1995/"><span>Heat</span></a></li>
	<li><a>No link</a></li>
</ul>
</body></html>`

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(anchorsPage))
	if err != nil {
		t.Fatal(err)
	}

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	expected := []Anchor{
		{Name: "Alien (1979)", Href: "/film/alien/"},
		{Name: "Heat", Href: "/film/heat-1995/"},
		{Name: "No link", Href: ""},
	}
	if diff := cmp.Diff(expected, anchors); diff != "" {
		t.Fatal(diff)
	}
}

func TestTextAndAttr(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div data-film-id=" 51568 "><p>  Directed   by <b>Ridley Scott</b></p></div>`,
	))
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, "Directed by Ridley Scott", Text(doc.Find("p")))
	require.Equal(t, "", Text(doc.Find("table")))

	id, ok := Attr(doc.Find("div"), "data-film-id")
	require.True(t, ok)
	require.Equal(t, "51568", id)

	_, ok = Attr(doc.Find("div"), "data-missing")
	require.False(t, ok)
}

func TestPathSegment(t *testing.T) {
	testCases := []struct {
		href     string
		prefix   string
		expected string
		ok       bool
	}{
		{href: "/user/alice/", prefix: "/user/", expected: "alice", ok: true},
		{href: "/alice/films/", prefix: "/", expected: "alice", ok: true},
		{href: "https://letterboxd.com/film/alien/", prefix: "/film/", expected: "alien", ok: true},
		{href: "/film/", prefix: "/film/", ok: false},
		{href: "/list/x/", prefix: "/user/", ok: false},
	}

	for _, test := range testCases {
		segment, ok := PathSegment(test.href, test.prefix)
		require.Equal(t, test.ok, ok, test.href)
		require.Equal(t, test.expected, segment, test.href)
	}
}
