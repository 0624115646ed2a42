// Package routes declares HTTP routes as nested prefix groups and registers
// them on a ServeMux using method-qualified patterns.
package routes

import "net/http"

// Route binds a method and a pattern, relative to its group, to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group holds routes sharing Prefix. Children inherit the accumulated prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route in groups to mux. Like ServeMux.HandleFunc it
// panics on conflicting patterns.
func Register(mux *http.ServeMux, groups ...Group) {
	Walk(groups, func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, h)
	})
}

// Patterns lists the "METHOD /path" pattern of every route in groups.
func Patterns(groups ...Group) []string {
	var out []string
	Walk(groups, func(pattern string, _ http.HandlerFunc) {
		out = append(out, pattern)
	})
	return out
}

// Walk calls fn with the full pattern and handler of every route, parents
// before children.
func Walk(groups []Group, fn func(pattern string, h http.HandlerFunc)) {
	for _, g := range groups {
		walk("", g, fn)
	}
}

func walk(parent string, g Group, fn func(string, http.HandlerFunc)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		fn(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for _, child := range g.Children {
		walk(prefix, child, fn)
	}
}
