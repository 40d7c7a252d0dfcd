package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrNotFound = errors.New("page not found")

// SiteError is a failure the site reports inside an otherwise successful
// response.
type SiteError struct {
	Messages []string
}

func (e SiteError) Error() string {
	if len(e.Messages) == 0 {
		return "site reported failure"
	}
	return fmt.Sprintf("site reported failure: %s", strings.Join(e.Messages, "; "))
}

func checkStatus(res *resty.Response) error {
	switch {
	case res.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%s: %w", res.Request.URL, ErrNotFound)
	case res.StatusCode() >= 400:
		return fmt.Errorf("%s: unexpected status %d", res.Request.URL, res.StatusCode())
	}
	return nil
}

// Get fetches a page relative to the base url and parses it. The cookies
// are sent with this request only, the session jar is left untouched.
func (c *Client) Get(ctx context.Context, path string, cookies ...*http.Cookie) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:Get")
	defer span.End()

	span.SetAttributes(attribute.String("path", path))

	req := c.Http.R().SetContext(ctx)
	if len(cookies) > 0 {
		req.SetCookies(cookies)
	}
	res, err := req.Get(c.resolve(path))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	err = checkStatus(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}

// PostForm posts url encoded values with the csrf token added.
func (c *Client) PostForm(ctx context.Context, path string, values url.Values) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "client:PostForm")
	defer span.End()

	span.SetAttributes(attribute.String("path", path))

	form := url.Values{}
	for k, v := range values {
		form[k] = v
	}
	form.Set(CsrfField, c.csrf)

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(c.resolve(path))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post")
		return nil, err
	}
	err = checkStatus(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return nil, err
	}
	return res, nil
}

// Result is the json body returned by the site's form endpoints.
type Result struct {
	Ok       bool
	Messages []string
	// Fields holds the whole decoded body.
	Fields map[string]json.RawMessage
}

func parseResult(body []byte) (Result, error) {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(body, &fields)
	if err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}

	out := Result{Fields: fields}
	if raw, ok := fields["result"]; ok {
		var b bool
		var str string
		switch {
		case json.Unmarshal(raw, &b) == nil:
			out.Ok = b
		case json.Unmarshal(raw, &str) == nil:
			out.Ok = str == "success"
		}
	}
	if raw, ok := fields["messages"]; ok {
		_ = json.Unmarshal(raw, &out.Messages)
	}
	return out, nil
}

// PostJSONResult posts the form and decodes the json result, a result
// reporting failure is returned as a SiteError.
func (c *Client) PostJSONResult(ctx context.Context, path string, values url.Values) (Result, error) {
	ctx, span := tracer.Start(ctx, "client:PostJSONResult")
	defer span.End()

	res, err := c.PostForm(ctx, path, values)
	if err != nil {
		return Result{}, err
	}

	result, err := parseResult(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode result")
		return Result{}, err
	}
	if !result.Ok {
		err := SiteError{Messages: result.Messages}
		span.RecordError(err)
		span.SetStatus(codes.Error, "site reported failure")
		return result, err
	}
	return result, nil
}

// resolve accepts paths with or without leading slashes.
func (c *Client) resolve(path string) string {
	return "/" + strings.TrimLeft(path, "/")
}
