// Package list reads and saves curated film lists.
package list

import (
	"errors"
	"fmt"
	"strings"

	"boxd/lib/letterboxd/core"

	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("boxd/lib/letterboxd/list")

var (
	ErrInvalidName = errors.New("list name must not be empty")
	// ErrOwnList is returned when viewing a list of the logged in user
	// through the public page, Edit shows more of it.
	ErrOwnList = errors.New("list belongs to the session user, use Edit")
)

type Entry struct {
	FilmId           int64  `json:"filmId"`
	Review           string `json:"review,omitempty"`
	ContainsSpoilers bool   `json:"containsSpoilers,omitempty"`
}

type Metadata struct {
	// Id is only known from the edit page.
	Id          *int64
	Owner       string
	Name        string
	Description string
	Tags        []string
	// Public is only known from the edit page.
	Public *bool
	Ranked bool
}

// Reader is implemented by both the public and the edit view of a list.
type Reader interface {
	Metadata() Metadata
	Entries() []Entry
}

// Slug is the url segment the site gives a list called name.
func Slug(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrInvalidName
	}
	s := slug.Make(name)
	if s == "" {
		return "", fmt.Errorf("%w: %q has no url safe characters", ErrInvalidName, name)
	}
	return s, nil
}

func viewPath(owner, slug string) string {
	return fmt.Sprintf("%s/list/%s/", owner, slug)
}

func editPath(owner, slug string) string {
	return fmt.Sprintf("%s/list/%s/edit/", owner, slug)
}

type Client struct {
	Core *core.Client
}

func NewClient(c *core.Client) Client {
	return Client{Core: c}
}

// FilmIds lists the film ids of the entries of r in order.
func FilmIds(r Reader) []int64 {
	entries := r.Entries()
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.FilmId
	}
	return ids
}
