// Package routes declares HTTP routes as data and registers them on a ServeMux.
package routes

import "net/http"

// Group organizes routes under a common prefix. Children inherit the
// group's prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.walk("", func(pattern string, h http.HandlerFunc) {
			mux.HandleFunc(pattern, h)
		})
	}
}

// Patterns returns the ServeMux patterns the group registers, in
// registration order.
func (g Group) Patterns() []string {
	var out []string
	g.walk("", func(pattern string, _ http.HandlerFunc) {
		out = append(out, pattern)
	})
	return out
}

func (g Group) walk(parent string, visit func(pattern string, h http.HandlerFunc)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		visit(r.pattern(prefix), r.Handler)
	}
	for _, child := range g.Children {
		child.walk(prefix, visit)
	}
}
