package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler. Pattern is relative
// to the enclosing group's prefix and may be empty.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

func (r Route) pattern(prefix string) string {
	path := prefix + r.Pattern
	if path == "" {
		path = "/"
	}
	if r.Method == "" {
		return path
	}
	return r.Method + " " + path
}
