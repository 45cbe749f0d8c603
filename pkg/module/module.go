// Package module mounts self-contained HTTP handlers under path prefixes.
// A module owns its middleware stack and sees request paths with its prefix
// removed.
package module

import (
	"fmt"
	"net/http"
	"strings"
)

// Module is an HTTP handler mounted at a fixed prefix.
type Module struct {
	prefix     string
	router     http.Handler
	middleware []func(http.Handler) http.Handler
}

// New creates a module mounted at prefix. The prefix must start with a slash,
// must not end with one, and must not contain empty segments. New panics on
// an invalid prefix.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix: prefix,
		router: router,
	}
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. The first middleware added is the outermost.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware = append(m.middleware, mw)
}

// Handler returns the module router wrapped in its middleware.
func (m *Module) Handler() http.Handler {
	h := m.router
	for i := len(m.middleware) - 1; i >= 0; i-- {
		h = m.middleware[i](h)
	}
	return h
}

// Serve strips the module prefix from the request path and dispatches it.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	r := req.Clone(req.Context())
	r.URL.Path = path
	r.URL.RawPath = ""

	m.Handler().ServeHTTP(w, r)
}

func validatePrefix(prefix string) error {
	if prefix == "" || prefix[0] != '/' {
		return fmt.Errorf("module prefix %q must start with /", prefix)
	}
	if prefix == "/" || strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("module prefix %q must not end with /", prefix)
	}
	if strings.Contains(prefix, "//") {
		return fmt.Errorf("module prefix %q contains an empty segment", prefix)
	}
	return nil
}
