package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/parle/internal/shared"
)

const (
	HomePath      = "/"
	LoginPath     = "/login"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
)

// Route is one client-side screen.
type Route struct {
	Path         string // may contain :param segments
	Name         string
	RequiresAuth bool
}

// DefaultRoutes lists the application screens. Only home, login and register are public.
func DefaultRoutes() []Route {
	return []Route{
		{Path: HomePath, Name: "home"},
		{Path: LoginPath, Name: "login"},
		{Path: RegisterPath, Name: "register"},
		{Path: DashboardPath, Name: "dashboard", RequiresAuth: true},
		{Path: "/flashcards", Name: "flashcards", RequiresAuth: true},
		{Path: "/practice", Name: "practice", RequiresAuth: true},
		{Path: "/schedule", Name: "schedule", RequiresAuth: true},
		{Path: "/journal", Name: "journal", RequiresAuth: true},
		{Path: "/progress", Name: "progress", RequiresAuth: true},
		{Path: "/quiz", Name: "quiz", RequiresAuth: true},
		{Path: "/upload", Name: "upload", RequiresAuth: true},
		{Path: "/reading/:textId", Name: "reading", RequiresAuth: true},
		{Path: "/summary/:textId", Name: "summary", RequiresAuth: true},
	}
}

// Match is a concrete path resolved to its route.
type Match struct {
	Route          Route
	Path           string
	Params         map[string]string
	Query          url.Values
	RedirectedFrom string // first path requested when the guard redirected here
}

// Table resolves paths against a fixed set of routes, first match wins.
type Table struct {
	routes []Route
}

// NewTable creates a [Table]; with no routes it uses [DefaultRoutes].
func NewTable(routes ...Route) *Table {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	return &Table{routes: routes}
}

// Routes returns a copy of the table's routes in match order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Lookup returns the route registered under name.
func (t *Table) Lookup(name string) (Route, bool) {
	for _, r := range t.routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Match resolves raw, which may carry a query string or fragment.
func (t *Table) Match(raw string) (Match, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %s: %w", shared.ErrInvalidArgument, raw, err)
	}
	path := normalize(u.Path)
	segments := split(path)

	for _, r := range t.routes {
		if params, ok := bind(split(r.Path), segments); ok {
			return Match{Route: r, Path: path, Params: params, Query: u.Query()}, nil
		}
	}
	return Match{}, fmt.Errorf("%w: %s", shared.ErrRouteNotFound, path)
}

func normalize(path string) string {
	if path == "" {
		return HomePath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return HomePath
	}
	return path
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func bind(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segments[i] == "" {
				return nil, false
			}
			params[name] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}
