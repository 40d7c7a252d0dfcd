package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// WatchedPerPage is the number of posters on a full page of a member's films.
	WatchedPerPage = 18
	// FilterCookie carries the active filters of the films views.
	FilterCookie = "filmFilter"
)

// The views of a member's films.
const (
	ViewWatched = ""
	ViewRatings = "ratings"
	ViewDiary   = "diary"
	ViewReviews = "reviews"
)

var views = []string{ViewWatched, ViewRatings, ViewDiary, ViewReviews}

var SortOptions = []string{
	"name",
	"popular",
	"date-earliest",
	"date-latest",
	"rating",
	"rating-lowest",
	"your-rating",
	"your-rating-lowest",
	"entry-rating",
	"entry-rating-lowest",
	"shortest",
	"longest",
}

var FilterOptions = []string{
	"show-liked", "hide-liked",
	"show-logged", "hide-logged",
	"show-reviewed", "hide-reviewed",
	"show-watchlisted", "hide-watchlisted",
	"show-shorts", "hide-shorts",
	"hide-docs",
	"hide-unreleased",
}

// Watched browses the films a member has seen.
type Watched struct {
	// Username defaults to the session user.
	Username string
	View     string
	Year     int
	Decade   int
	Genre    string
	Service  string
	// Rating is in stars, 0.5 to 5. Setting it selects the ratings view.
	Rating float64
	// SortBy defaults to "name".
	SortBy string
	// Filters hold at most one of each kind, "hide liked" and
	// "show-liked" are the same kind.
	Filters []string
	// PageLimit caps the pages fetched, 0 fetches until the last page.
	PageLimit int
}

func (w Watched) view() string {
	if w.Rating != 0 {
		return ViewRatings
	}
	return strings.ToLower(w.View)
}

func (w Watched) sortBy() string {
	if w.SortBy == "" {
		return "name"
	}
	return strings.ToLower(w.SortBy)
}

func (w Watched) Validate() error {
	view := w.view()
	if !slices.Contains(views, view) {
		return fmt.Errorf("%w: unknown view %q", ErrInvalidSearch, w.View)
	}
	if view == ViewRatings && w.Rating == 0 {
		return fmt.Errorf("%w: the ratings view needs a rating", ErrInvalidSearch)
	}
	if w.Rating != 0 {
		_, err := ratingSegment(w.Rating)
		if err != nil {
			return err
		}
	}
	if !slices.Contains(SortOptions, w.sortBy()) {
		return fmt.Errorf("%w: unknown sort %q", ErrInvalidSearch, w.SortBy)
	}
	popular := Popular{Year: w.Year, Decade: w.Decade}
	err := popular.Validate()
	if err != nil {
		return err
	}
	_, err = FilterValue(w.Filters)
	if err != nil {
		return err
	}
	if w.PageLimit < 0 {
		return fmt.Errorf("%w: negative page limit", ErrInvalidSearch)
	}
	return nil
}

// ratingSegment formats a star rating the way the site's urls do, whole
// stars are plain numbers and half stars end in an encoded "½".
func ratingSegment(stars float64) (string, error) {
	halves := stars * 2
	if halves != math.Trunc(halves) {
		return "", fmt.Errorf("%w: rating %v is not a whole or half star", ErrInvalidSearch, stars)
	}
	if halves < 1 || halves > 10 {
		return "", fmt.Errorf("%w: rating %v is not within 0.5-5", ErrInvalidSearch, stars)
	}
	whole := int(halves) / 2
	if int(halves)%2 == 0 {
		return strconv.Itoa(whole), nil
	}
	if whole == 0 {
		return "%C2%BD", nil
	}
	return strconv.Itoa(whole) + "%C2%BD", nil
}

// FilterValue joins filters into the cookie value the site expects.
func FilterValue(filters []string) (string, error) {
	normalized := make([]string, 0, len(filters))
	kinds := map[string]bool{}
	for _, f := range filters {
		f = strings.ToLower(strings.Join(strings.Fields(f), "-"))
		if !slices.Contains(FilterOptions, f) {
			return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidSearch, f)
		}
		kind := f[strings.LastIndex(f, "-")+1:]
		if kinds[kind] {
			return "", fmt.Errorf("%w: more than one %s filter", ErrInvalidSearch, kind)
		}
		kinds[kind] = true
		normalized = append(normalized, f)
	}
	return strings.Join(normalized, "%20"), nil
}

// Path builds the listing path for username, page segments are appended
// to it. The search must be valid.
func (w Watched) Path(username string) string {
	var path strings.Builder
	fmt.Fprintf(&path, "%s/films/", username)
	if view := w.view(); view != "" {
		fmt.Fprintf(&path, "%s/", view)
	}
	if w.Rating != 0 {
		rating, _ := ratingSegment(w.Rating)
		fmt.Fprintf(&path, "rated/%s/", rating)
	}
	switch {
	case w.Year != 0:
		fmt.Fprintf(&path, "year/%d/", w.Year)
	case w.Decade != 0:
		fmt.Fprintf(&path, "decade/%ds/", w.Decade)
	}
	if w.Genre != "" {
		fmt.Fprintf(&path, "genre/%s/", strings.ToLower(w.Genre))
	}
	if w.Service != "" {
		fmt.Fprintf(&path, "on/%s/", strings.ToLower(w.Service))
	}
	fmt.Fprintf(&path, "by/%s/", w.sortBy())
	return path.String()
}

// Watched pages through a member's films until a page comes back short
// or empty. Filters ride on each request, so concurrent searches on one
// session do not see each other's filters.
func (c Client) Watched(ctx context.Context, w Watched) ([]Film, error) {
	ctx, span := tracer.Start(ctx, "client:Watched")
	defer span.End()

	err := w.Validate()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	username := w.Username
	if username == "" {
		err := c.Core.RequireLogin()
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		username = c.Core.Username
	}
	path := w.Path(username)
	span.SetAttributes(attribute.String("path", path))

	var cookies []*http.Cookie
	filters, _ := FilterValue(w.Filters)
	if filters != "" {
		cookies = append(cookies, &http.Cookie{Name: FilterCookie, Value: filters})
	}

	films := []Film{}
	for page := 1; w.PageLimit == 0 || page <= w.PageLimit; page++ {
		slog.DebugContext(ctx, "searching watched films", "path", path, "page", page)

		doc, err := c.Core.Get(ctx, fmt.Sprintf("%spage/%d/", path, page), cookies...)
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
		if len(pageFilms) == 0 {
			break
		}
		films = append(films, pageFilms...)
		if len(films)%WatchedPerPage != 0 {
			break
		}
	}
	return films, nil
}
