// Package sentence spells out a sentence as a list of films whose titles
// are its words.
package sentence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"boxd/lib/htmlutil"
	"boxd/lib/letterboxd/core"
	"boxd/lib/letterboxd/list"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("boxd/lib/letterboxd/sentence")

var ErrUnmatched = errors.New("no film found for word")

// Result is one film returned by a title search.
type Result struct {
	FilmId   int64
	Title    string
	NoPoster bool
}

const exactMatchScore = 3

// Score rates how well a search result spells word. Only exact title
// matches count, a missing poster costs a point.
func Score(r Result, word string) int {
	title := strings.ToLower(r.Title)
	if title == "" || r.FilmId == 0 {
		return 0
	}
	if title != word && !strings.Contains(title, word+" ") {
		return 0
	}
	score := 0
	if title == word {
		score = exactMatchScore
	}
	if r.NoPoster {
		score--
	}
	return score
}

type Maker struct {
	// Search returns the films a title search for word turns up.
	Search func(ctx context.Context, word string) ([]Result, error)
	// Replace is asked for another word when nothing matches word, an
	// empty answer drops it. A nil Replace makes Build fail instead.
	Replace func(word string) string
}

type scored struct {
	result     Result
	score      int
	similarity float64
}

// Match picks the best film for word, skipping the first `skip` ranked
// results so repeated words get different films.
func (m Maker) Match(ctx context.Context, word string, skip int) (Result, bool, error) {
	ctx, span := tracer.Start(ctx, "Match")
	defer span.End()

	span.SetAttributes(attribute.String("word", word), attribute.Int("skip", skip))

	results, err := m.Search(ctx, word)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return Result{}, false, err
	}

	ranked := make([]scored, len(results))
	for i, r := range results {
		ranked[i] = scored{
			result:     r,
			score:      Score(r, word),
			similarity: matchr.JaroWinkler(strings.ToLower(r.Title), word, false),
		}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		if a.score != b.score {
			return b.score - a.score
		}
		switch {
		case a.similarity > b.similarity:
			return -1
		case a.similarity < b.similarity:
			return 1
		}
		return 0
	})

	if skip >= len(ranked) || ranked[skip].score <= 0 {
		return Result{}, false, nil
	}
	return ranked[skip].result, true, nil
}

type match struct {
	word   string
	result Result
	ok     bool
}

// Build matches every word of sentence to a film, asking Replace for the
// words that have none.
func (m Maker) Build(ctx context.Context, sentence string) ([]list.Entry, error) {
	ctx, span := tracer.Start(ctx, "Build")
	defer span.End()

	seen := map[string]int{}
	var matches []match
	for _, word := range Words(sentence) {
		result, ok, err := m.Match(ctx, word, seen[word])
		if err != nil {
			return nil, err
		}
		seen[word]++
		matches = append(matches, match{word: word, result: result, ok: ok})
	}

	for {
		var unmatched []string
		for _, mt := range matches {
			if !mt.ok {
				unmatched = append(unmatched, mt.word)
			}
		}
		if len(unmatched) == 0 {
			break
		}
		if m.Replace == nil {
			err := fmt.Errorf("%w: %s", ErrUnmatched, strings.Join(unmatched, ", "))
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := matches[:0]
		for _, mt := range matches {
			if mt.ok {
				next = append(next, mt)
				continue
			}
			replacement := strings.ToLower(strings.TrimSpace(m.Replace(mt.word)))
			if replacement == "" {
				slog.DebugContext(ctx, "dropping word", "word", mt.word)
				continue
			}
			result, ok, err := m.Match(ctx, replacement, 0)
			if err != nil {
				return nil, err
			}
			next = append(next, match{word: replacement, result: result, ok: ok})
		}
		matches = next
	}

	entries := make([]list.Entry, len(matches))
	for i, mt := range matches {
		entries[i] = list.Entry{FilmId: mt.result.FilmId}
	}
	return entries, nil
}

// SiteSearch searches film titles on the site.
func SiteSearch(c *core.Client) func(ctx context.Context, word string) ([]Result, error) {
	return func(ctx context.Context, word string) ([]Result, error) {
		doc, err := c.Get(ctx, fmt.Sprintf("search/%s/", url.PathEscape(word)))
		if err != nil {
			return nil, err
		}
		return parseResults(doc)
	}
}

func parseResults(doc *goquery.Document) ([]Result, error) {
	results := []Result{}
	var parseErr error
	doc.Find("ul.results div.film-poster").EachWithBreak(func(_ int, poster *goquery.Selection) bool {
		rawId, _ := htmlutil.Attr(poster, "data-film-id")
		id, err := strconv.ParseInt(rawId, 10, 64)
		if err != nil {
			parseErr = fmt.Errorf("parse film id %q: %w", rawId, err)
			return false
		}
		title, _ := htmlutil.Attr(poster, "data-film-name")
		results = append(results, Result{
			FilmId:   id,
			Title:    strings.ToLower(title),
			NoPoster: poster.HasClass("no-poster"),
		})
		return true
	})
	return results, parseErr
}
