package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"boxd/lib/testutil"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, site *testutil.Site) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl: site.URL(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/core")
	client := newTestClient(t, site)
	require.Equal(t, testutil.CsrfToken, client.Csrf())
	require.False(t, client.LoggedIn())
}

func TestNewClientCsrfMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := NewClient(context.Background(), ClientOptions{BaseUrl: srv.URL})
	require.ErrorIs(t, err, ErrCsrfMissing)
}

func TestLogin(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		messages []string
	}{
		{
			name: "success",
			body: `{"result": "success", "csrf": "abc"}`,
		},
		{
			name:     "rejected",
			body:     `{"result": "error", "messages": ["Your credentials don’t match. Please try again."]}`,
			messages: []string{"Your credentials don’t match. Please try again."},
		},
		{
			name: "compact success",
			body: `{"result":"success","csrf":"abc"}`,
		},
		{
			name:     "compact rejected",
			body:     `{"result":"error","messages":["Too many attempts."]}`,
			messages: []string{"Too many attempts."},
		},
		{
			name: "truncated success",
			body: `{"result":"success", "csrf": `,
		},
		{
			name:     "truncated rejected",
			body:     `{"result": "error", "messages": ["Try again."`,
			messages: []string{"Try again."},
		},
		{
			name:     "no messages",
			body:     `{"result": "error"}`,
			messages: []string{"unknown error"},
		},
		{
			name:     "not json",
			body:     `<html>maintenance</html>`,
			messages: []string{"unknown error"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			site := testutil.NewSite(t, "lib/letterboxd/core")
			site.JSON("/user/login.do", test.body)
			client := newTestClient(t, site)

			err := client.Login(context.Background(), "someone", "hunter2")

			requests := site.RequestsTo("/user/login.do")
			require.Len(t, requests, 1)
			require.Equal(t, []string{testutil.CsrfToken}, requests[0].Form[CsrfField])
			require.Equal(t, []string{"someone"}, requests[0].Form["username"])
			require.Equal(t, []string{"hunter2"}, requests[0].Form["password"])

			if test.messages == nil {
				require.NoError(t, err)
				require.Equal(t, "someone", client.Username)
				return
			}

			var loginErr LoginError
			require.True(t, errors.As(err, &loginErr), err)
			require.Equal(t, test.messages, loginErr.Messages)
			require.False(t, client.LoggedIn())
		})
	}
}

func TestGet(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/core")
	site.Page("/film/alien/", `<html><body><h1 class="headline-1">Alien</h1></body></html>`)
	site.Handle("GET /broken/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(t, site)
	ctx := context.Background()

	doc, err := client.Get(ctx, "film/alien/")
	require.NoError(t, err)
	require.Equal(t, "Alien", doc.Find("h1.headline-1").Text())

	_, err = client.Get(ctx, "/film/missing/")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = client.Get(ctx, "broken/")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestPostJSONResult(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/core")
	site.JSON("/s/ok", `{"result": true, "messages": [], "filmListId": 12}`)
	site.JSON("/s/fail", `{"result": false, "messages": ["You cannot do that."]}`)
	site.JSON("/s/garbage", `not json`)
	client := newTestClient(t, site)
	ctx := context.Background()

	result, err := client.PostJSONResult(ctx, "s/ok", url.Values{"name": {"x"}})
	require.NoError(t, err)
	require.True(t, result.Ok)
	require.Equal(t, "12", string(result.Fields["filmListId"]))

	requests := site.RequestsTo("/s/ok")
	require.Len(t, requests, 1)
	require.Equal(t, []string{testutil.CsrfToken}, requests[0].Form[CsrfField])
	require.Equal(t, []string{"x"}, requests[0].Form["name"])

	_, err = client.PostJSONResult(ctx, "s/fail", nil)
	var siteErr SiteError
	require.True(t, errors.As(err, &siteErr), err)
	require.Equal(t, []string{"You cannot do that."}, siteErr.Messages)

	_, err = client.PostJSONResult(ctx, "s/garbage", nil)
	require.Error(t, err)
}

func TestGetCookies(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/core")
	site.Page("/echo/", "ok")
	client := newTestClient(t, site)
	ctx := context.Background()

	_, err := client.Get(ctx, "echo/", &http.Cookie{Name: "filmFilter", Value: "hide-watched"})
	require.NoError(t, err)
	_, err = client.Get(ctx, "echo/")
	require.NoError(t, err)

	requests := site.RequestsTo("/echo/")
	require.Len(t, requests, 2)
	require.Equal(t, "hide-watched", requests[0].Cookie["filmFilter"])
	require.Equal(t, testutil.CsrfToken, requests[0].Cookie[CsrfCookie])
	require.NotContains(t, requests[1].Cookie, "filmFilter")
	require.Equal(t, testutil.CsrfToken, requests[1].Cookie[CsrfCookie])
}

func TestParseResult(t *testing.T) {
	result, err := parseResult([]byte(`{"result": "success"}`))
	require.NoError(t, err)
	require.True(t, result.Ok)

	result, err = parseResult([]byte(`{"messages": ["x"]}`))
	require.NoError(t, err)
	require.False(t, result.Ok)
	require.Equal(t, []string{"x"}, result.Messages)
}

func TestRequireLogin(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/core")
	site.JSON("/user/login.do", `{"result": "success"}`)
	client := newTestClient(t, site)

	require.ErrorIs(t, client.RequireLogin(), ErrNotLoggedIn)
	err := client.Login(context.Background(), "someone", "hunter2")
	require.NoError(t, err)
	require.NoError(t, client.RequireLogin())
}
