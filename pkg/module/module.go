// Package module mounts prefixed HTTP handlers, each with its own
// middleware stack, onto a single router.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/courier/pkg/middleware"
)

// Module serves every request under a single-level prefix (e.g. "/api"),
// stripping the prefix before its inner handler sees the request.
type Module struct {
	prefix     string
	inner      http.Handler
	middleware middleware.System
}

// New creates a Module for prefix. The prefix must start with a slash and
// contain no further path separators.
func New(prefix string, inner http.Handler) (*Module, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	return &Module{
		prefix:     prefix,
		inner:      inner,
		middleware: middleware.New(),
	}, nil
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack. The first middleware added
// is the outermost.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Handler returns the inner handler wrapped with the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.inner)
}

// ServeHTTP strips the module prefix and dispatches to Handler.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, strip(req, m.prefix))
}

func strip(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	u := *req.URL
	u.Path = path
	u.RawPath = ""

	out := req.Clone(req.Context())
	out.URL = &u
	return out
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case prefix[0] != '/':
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Contains(prefix[1:], "/") || len(prefix) == 1:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}
