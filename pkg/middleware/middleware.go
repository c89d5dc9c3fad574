// Package middleware provides HTTP middleware for request logging, panic
// recovery, and CORS.
package middleware

import (
	"net/http"
	"slices"
)

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack []func(http.Handler) http.Handler

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	*s = append(*s, fn)
}

// Apply wraps handler so the first middleware added runs first.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(*s) {
		handler = mw(handler)
	}
	return handler
}
