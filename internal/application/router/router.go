package router

import (
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"records/internal/domain/route"
)

// DefaultMaxRedirects bounds guard redirects within one navigation.
const DefaultMaxRedirects = 4

// ErrTooManyRedirects is returned when guard redirects do not settle.
var ErrTooManyRedirects = errors.New("too many redirects")

// PrincipalSource reports the authentication state the guard needs.
type PrincipalSource interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Activation describes the single view made active by a navigation.
type Activation struct {
	Fragment  string
	Route     string
	View      route.View
	Query     url.Values
	Redirects int
}

// Presenter is told about each activation so it can render the view.
type Presenter interface {
	Present(Activation)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Activation)

// Present calls f(a).
func (f PresenterFunc) Present(a Activation) { f(a) }

// Options tune the Router.
type Options struct {
	MaxRedirects int
}

// Router maps location fragments to views under the guard policy.
type Router struct {
	table        *route.Table
	auth         PrincipalSource
	presenter    Presenter
	maxRedirects int

	mu       sync.Mutex
	location string
	active   Activation
}

// New creates a Router positioned at the root fragment. presenter may be nil.
func New(table *route.Table, auth PrincipalSource, presenter Presenter, opts Options) *Router {
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	return &Router{
		table:        table,
		auth:         auth,
		presenter:    presenter,
		maxRedirects: opts.MaxRedirects,
		location:     route.Fragment(route.Home),
	}
}

// Navigate runs the guard for fragment and activates exactly one view.
// A redirect is a new navigation and passes through the guard again.
// PRE: none
// POST: Location() is the fragment of the activated view
// INVARIANT: At most maxRedirects redirects are followed; past that the home view is activated
func (r *Router) Navigate(fragment string) (Activation, error) {
	current := fragment
	for redirects := 0; ; redirects++ {
		loc := route.Parse(current)
		target, redirect := r.guard(loc.Route)
		if !redirect {
			return r.activate(loc, redirects), nil
		}
		if redirects == r.maxRedirects {
			slog.Warn("route_event", "event", "redirect_loop", "fragment", fragment, "redirects", redirects)
			home := route.Location{Route: route.Home, Query: url.Values{}}
			return r.activate(home, redirects), ErrTooManyRedirects
		}
		slog.Debug("route_event", "event", "redirect", "from", loc.Route, "to", target)
		current = route.Fragment(target)
	}
}

// Reevaluate re-runs navigation on the current location, typically after
// the session changed.
func (r *Router) Reevaluate() (Activation, error) {
	return r.Navigate(r.Location())
}

// Location returns the fragment of the active view.
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Active returns the last activation.
func (r *Router) Active() Activation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// guard returns the route to redirect to, if any.
// Anonymous on a protected or admin route goes to login; a non-admin on an
// admin route goes to root.
func (r *Router) guard(id string) (string, bool) {
	access := r.table.Classify(id)
	if access == route.Public {
		return "", false
	}
	if !r.auth.IsAuthenticated() {
		return route.Login, true
	}
	if access == route.AdminOnly && !r.auth.IsAdmin() {
		return route.Home, true
	}
	return "", false
}

func (r *Router) activate(loc route.Location, redirects int) Activation {
	view, ok := r.table.Resolve(loc.Route)
	if !ok {
		view = r.homeView()
	}
	a := Activation{
		Fragment:  fragmentOf(loc),
		Route:     loc.Route,
		View:      view,
		Query:     loc.Query,
		Redirects: redirects,
	}

	r.mu.Lock()
	r.location = a.Fragment
	r.active = a
	r.mu.Unlock()

	slog.Debug("route_event", "event", "activated", "view", string(view), "redirects", redirects)
	if r.presenter != nil {
		r.presenter.Present(a)
	}
	return a
}

func (r *Router) homeView() route.View {
	if v, ok := r.table.Resolve(route.Home); ok {
		return v
	}
	return route.ViewHome
}

func fragmentOf(loc route.Location) string {
	f := route.Fragment(loc.Route)
	if q := loc.Query.Encode(); q != "" {
		f += "?" + q
	}
	return f
}
