// Package module mounts prefixed sub-applications, each with its own
// middleware stack, under a single root router.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/fra-atlas/atlas/pkg/middleware"
)

// Module serves every request under a single-level prefix such as "/api".
// The prefix is stripped before the request reaches the inner router.
type Module struct {
	prefix string
	router http.Handler
	stack  middleware.Stack

	once    sync.Once
	handler http.Handler
}

// New creates a Module. It panics if prefix is empty, lacks a leading slash,
// or has more than one segment.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, router: router}
}

// Use appends middleware. All calls must happen before the first request.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

// Handler returns the inner router wrapped by the middleware stack.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.stack.Apply(m.router)
	})
	return m.handler
}

// Prefix returns the module's mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the prefix and dispatches to Handler.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, stripPrefix(req, m.prefix))
}

// stripPrefix clones req with the prefix removed from both the decoded and
// the escaped path, so encoded segments like %2F survive routing.
func stripPrefix(req *http.Request, prefix string) *http.Request {
	u := new(url.URL)
	*u = *req.URL
	u.Path = trimmed(req.URL.Path, prefix)
	if req.URL.RawPath != "" {
		u.RawPath = trimmed(req.URL.RawPath, prefix)
	}

	out := req.Clone(req.Context())
	out.URL = u
	return out
}

func trimmed(path, prefix string) string {
	path = strings.TrimPrefix(path, prefix)
	if path == "" {
		return "/"
	}
	return path
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}
