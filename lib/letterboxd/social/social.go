// Package social reads the follow and block lists of a member.
package social

import (
	"context"
	"fmt"

	"boxd/lib/htmlutil"
	"boxd/lib/letterboxd/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("boxd/lib/letterboxd/social")

type Client struct {
	Core *core.Client
}

func NewClient(c *core.Client) Client {
	return Client{Core: c}
}

// resolveUser falls back to the session user when username is empty.
func (c Client) resolveUser(username string) (string, error) {
	if username != "" {
		return username, nil
	}
	err := c.Core.RequireLogin()
	if err != nil {
		return "", err
	}
	return c.Core.Username, nil
}

func (c Client) people(ctx context.Context, name, username, page string) ([]string, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	username, err := c.resolveUser(username)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("username", username))

	doc, err := c.Core.Get(ctx, fmt.Sprintf("%s/%s/", username, page))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch people page")
		return nil, err
	}
	return parsePeople(ctx, doc), nil
}

func parsePeople(ctx context.Context, doc *goquery.Document) []string {
	people := []string{}
	doc.Find("td.table-person").Each(func(_ int, td *goquery.Selection) {
		anchors := htmlutil.GetAnchors(ctx, td.Find("a[href]").First())
		if len(anchors) == 0 {
			return
		}
		username, ok := htmlutil.PathSegment(anchors[0].Href, "/")
		if ok {
			people = append(people, username)
		}
	})
	return people
}

// Following lists the members username follows, the session user when
// username is empty.
func (c Client) Following(ctx context.Context, username string) ([]string, error) {
	return c.people(ctx, "client:Following", username, "following")
}

// Followers lists the members following username, the session user when
// username is empty.
func (c Client) Followers(ctx context.Context, username string) ([]string, error) {
	return c.people(ctx, "client:Followers", username, "followers")
}

// Blocked lists the members the session user blocked, nobody else's block
// list is visible.
func (c Client) Blocked(ctx context.Context) ([]string, error) {
	err := c.Core.RequireLogin()
	if err != nil {
		return nil, err
	}
	return c.people(ctx, "client:Blocked", c.Core.Username, "blocked")
}
