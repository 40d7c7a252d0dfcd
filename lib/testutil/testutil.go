package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"boxd/lib/telemetry"
)

// CsrfToken is the token every fake site hands out.
const CsrfToken = "test-csrf-token"

// Request is a request the fake site received.
type Request struct {
	Method string
	Path   string
	Form   map[string][]string
	Cookie map[string]string
}

// Site is an httptest server standing in for the real site. The home page
// sets the csrf cookie, other pages are registered with Page and Handle.
type Site struct {
	Server *httptest.Server
	Mux    *http.ServeMux

	mutex    sync.Mutex
	requests []Request
}

func NewSite(t testing.TB, name string) *Site {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name))
	t.Cleanup(cleanup)

	site := &Site{Mux: http.NewServeMux()}
	site.Mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "com.xk72.webparts.csrf", Value: CsrfToken, Path: "/"})
		fmt.Fprint(w, "<html><body>home</body></html>")
	})
	site.Server = httptest.NewServer(http.HandlerFunc(site.serve))
	t.Cleanup(site.Server.Close)
	return site
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	req := Request{Method: r.Method, Path: r.URL.Path, Cookie: map[string]string{}}
	if r.Method == http.MethodPost {
		err := r.ParseForm()
		if err == nil {
			req.Form = r.PostForm
		}
	}
	for _, c := range r.Cookies() {
		req.Cookie[c.Name] = c.Value
	}
	s.mutex.Lock()
	s.requests = append(s.requests, req)
	s.mutex.Unlock()

	s.Mux.ServeHTTP(w, r)
}

func (s *Site) URL() string {
	return s.Server.URL
}

// Page serves a fixed html body for GET requests to path.
func (s *Site) Page(path, body string) {
	s.Mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	})
}

// JSON serves a fixed json body for POST requests to path.
func (s *Site) JSON(path, body string) {
	s.Mux.HandleFunc("POST "+path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		fmt.Fprint(w, body)
	})
}

func (s *Site) Handle(pattern string, handler http.HandlerFunc) {
	s.Mux.HandleFunc(pattern, handler)
}

// Requests returns every request received other than the home page.
func (s *Site) Requests() []Request {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var out []Request
	for _, r := range s.requests {
		if r.Path == "/" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RequestsTo filters Requests by path prefix.
func (s *Site) RequestsTo(prefix string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}
