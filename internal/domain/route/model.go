package route

import (
	"net/url"
	"strings"
)

// Prefix introduces every routable fragment.
const Prefix = "#/"

// Route identifiers. Home is the empty route.
const (
	Home             = ""
	Login            = "login"
	Register         = "register"
	VerifyEmail      = "verify-email"
	Profile          = "profile"
	RequestsUser     = "requests-user"
	EmployeesAdmin   = "employees-admin"
	DepartmentsAdmin = "departments-admin"
	AccountsAdmin    = "accounts-admin"
)

// View identifies one page of the application.
type View string

// Views, one per route.
const (
	ViewHome             View = "home"
	ViewLogin            View = "login"
	ViewRegister         View = "register"
	ViewVerifyEmail      View = "verify-email"
	ViewProfile          View = "profile"
	ViewRequestsUser     View = "requests-user"
	ViewEmployeesAdmin   View = "employees-admin"
	ViewDepartmentsAdmin View = "departments-admin"
	ViewAccountsAdmin    View = "accounts-admin"
)

// Access is the guard class of a route.
type Access int

const (
	// Public routes are open to everyone. Any unclassified route is public.
	Public Access = iota
	// Protected routes need an authenticated session.
	Protected
	// AdminOnly routes need an authenticated session with the Admin role.
	AdminOnly
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case AdminOnly:
		return "admin"
	default:
		return "public"
	}
}

// Location is a parsed fragment.
type Location struct {
	Route string
	Query url.Values
}

// Parse normalizes a raw location fragment into a route identifier and query.
// PRE: none
// POST: "", "#" and "#/" yield the Home route; a malformed query yields empty Query
func Parse(fragment string) Location {
	raw := strings.TrimSpace(fragment)
	switch {
	case strings.HasPrefix(raw, Prefix):
		raw = raw[len(Prefix):]
	case strings.HasPrefix(raw, "#"):
		raw = raw[1:]
	}

	loc := Location{Query: url.Values{}}
	path, query, hasQuery := strings.Cut(raw, "?")
	loc.Route = path
	if hasQuery {
		if q, err := url.ParseQuery(query); err == nil {
			loc.Query = q
		}
	}
	return loc
}

// Fragment renders the canonical fragment for a route.
func Fragment(route string) string {
	return Prefix + route
}

// Table maps route identifiers to views and guard classes.
type Table struct {
	views  map[string]View
	access map[string]Access
}

// NewTable builds an empty table.
func NewTable() *Table {
	return &Table{
		views:  make(map[string]View),
		access: make(map[string]Access),
	}
}

// Add registers a route.
// PRE: id is unique within the table
// POST: Resolve(id) returns view; Classify(id) returns access
func (t *Table) Add(id string, view View, access Access) *Table {
	t.views[id] = view
	if access != Public {
		t.access[id] = access
	}
	return t
}

// Resolve returns the view registered for id.
func (t *Table) Resolve(id string) (View, bool) {
	v, ok := t.views[id]
	return v, ok
}

// Classify returns the guard class of id. Unknown routes are Public.
func (t *Table) Classify(id string) Access {
	return t.access[id]
}

// DefaultTable is the route surface of the application.
func DefaultTable() *Table {
	return NewTable().
		Add(Home, ViewHome, Public).
		Add(Login, ViewLogin, Public).
		Add(Register, ViewRegister, Public).
		Add(VerifyEmail, ViewVerifyEmail, Public).
		Add(Profile, ViewProfile, Protected).
		Add(RequestsUser, ViewRequestsUser, Protected).
		Add(EmployeesAdmin, ViewEmployeesAdmin, AdminOnly).
		Add(DepartmentsAdmin, ViewDepartmentsAdmin, AdminOnly).
		Add(AccountsAdmin, ViewAccountsAdmin, AdminOnly)
}
