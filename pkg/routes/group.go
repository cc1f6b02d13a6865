// Package routes declares HTTP endpoints once and uses the declaration
// both to register handlers and to document them.
package routes

import "net/http"

// Route binds a method and pattern, relative to its group prefix, to a
// handler. Status is the documented success code; zero means 204 for
// DELETE and 200 otherwise.
type Route struct {
	Method  string
	Pattern string
	Summary string
	Status  int
	Handler http.HandlerFunc
}

// Group is the set of routes a domain handler exposes under Prefix.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
}

// Register adds every route of groups to mux as "METHOD prefix+pattern".
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		for _, r := range g.Routes {
			mux.HandleFunc(r.Method+" "+g.Prefix+r.Pattern, r.Handler)
		}
	}
}

func (r Route) successStatus() int {
	switch {
	case r.Status != 0:
		return r.Status
	case r.Method == http.MethodDelete:
		return http.StatusNoContent
	}
	return http.StatusOK
}
