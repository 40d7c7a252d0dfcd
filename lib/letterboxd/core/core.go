package core

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"boxd/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("boxd/lib/letterboxd/core")

const (
	DefaultBaseUrl           = "https://letterboxd.com"
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultRequestsPerSecond = 2

	// CsrfCookie is set on the first page load and must be echoed back
	// as the __csrf field of every form post.
	CsrfCookie = "com.xk72.webparts.csrf"
	CsrfField  = "__csrf"
)

var (
	ErrCsrfMissing = errors.New("csrf cookie missing from home page response")
	ErrNotLoggedIn = errors.New("operation requires a logged in session")
)

type ClientOptions struct {
	BaseUrl   string
	UserAgent string
	// RequestsPerSecond <= 0 disables pacing.
	RequestsPerSecond float64
	CloudflareBypass  bool
	// HttpOutput receives a dump of every request when set.
	HttpOutput restyutil.InstrumentOutput
}

// Client is an http session with the site. It is safe to share between
// goroutines once Login has returned.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	// Username is set after a successful Login.
	Username string

	csrf string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	ctx, span := tracer.Start(ctx, "NewClient")
	defer span.End()

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	span.SetAttributes(attribute.String("base_url", opts.BaseUrl))

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse base url")
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(int(opts.RequestsPerSecond), 1)
	}
	rateLimiter := rate.NewLimiter(limit, burst)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	restyutil.InstrumentClient(client, otel.Tracer("boxd/lib/letterboxd/http"), opts.HttpOutput)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}

	res, err := client.R().SetContext(ctx).Get("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch home page")
		return nil, fmt.Errorf("fetch home page: %w", err)
	}
	if res.StatusCode() >= 400 {
		err := fmt.Errorf("fetch home page: unexpected status %d", res.StatusCode())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.csrf = c.cookie(CsrfCookie)
	if c.csrf == "" {
		span.SetStatus(codes.Error, ErrCsrfMissing.Error())
		return nil, ErrCsrfMissing
	}

	return c, nil
}

func (c *Client) cookie(name string) string {
	for _, cookie := range c.Http.GetClient().Jar.Cookies(c.BaseUrl) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

// Csrf returns the token sent with form posts.
func (c *Client) Csrf() string {
	return c.csrf
}

func (c *Client) LoggedIn() bool {
	return c.Username != ""
}

// RequireLogin returns ErrNotLoggedIn unless Login has succeeded.
func (c *Client) RequireLogin() error {
	if !c.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}
