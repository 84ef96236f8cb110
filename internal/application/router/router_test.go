package router

import (
	"errors"
	"reflect"
	"testing"

	"records/internal/domain/route"
)

// --- test doubles ---

type fakeAuth struct {
	authenticated bool
	admin         bool
}

func (f *fakeAuth) IsAuthenticated() bool { return f.authenticated }
func (f *fakeAuth) IsAdmin() bool         { return f.authenticated && f.admin }

var (
	anonymous = fakeAuth{}
	user      = fakeAuth{authenticated: true}
	admin     = fakeAuth{authenticated: true, admin: true}
)

type recorder struct {
	seen []Activation
}

func (r *recorder) Present(a Activation) { r.seen = append(r.seen, a) }

// TestNavigate_Guard tests the guard across roles and route classes.
func TestNavigate_Guard(t *testing.T) {
	tests := []struct {
		name         string
		auth         fakeAuth
		fragment     string
		wantView     route.View
		wantFragment string
		wantHops     int
	}{
		{"anonymous on admin route", anonymous, "#/employees-admin", route.ViewLogin, "#/login", 1},
		{"user on admin route", user, "#/employees-admin", route.ViewHome, "#/", 1},
		{"admin on admin route", admin, "#/employees-admin", route.ViewEmployeesAdmin, "#/employees-admin", 0},
		{"anonymous on protected route", anonymous, "#/profile", route.ViewLogin, "#/login", 1},
		{"user on protected route", user, "#/requests-user", route.ViewRequestsUser, "#/requests-user", 0},
		{"admin on protected route", admin, "#/profile", route.ViewProfile, "#/profile", 0},
		{"anonymous on public route", anonymous, "#/register", route.ViewRegister, "#/register", 0},
		{"empty fragment", anonymous, "", route.ViewHome, "#/", 0},
		{"bare hash", user, "#", route.ViewHome, "#/", 0},
		{"user on accounts admin", user, "#/accounts-admin", route.ViewHome, "#/", 1},
		{"anonymous on departments admin", anonymous, "#/departments-admin", route.ViewLogin, "#/login", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := tt.auth
			rec := &recorder{}
			r := New(route.DefaultTable(), &auth, rec, Options{})

			got, err := r.Navigate(tt.fragment)
			if err != nil {
				t.Fatalf("Navigate(%q) error = %v", tt.fragment, err)
			}
			if got.View != tt.wantView {
				t.Errorf("View = %q, want %q", got.View, tt.wantView)
			}
			if got.Fragment != tt.wantFragment {
				t.Errorf("Fragment = %q, want %q", got.Fragment, tt.wantFragment)
			}
			if got.Redirects != tt.wantHops {
				t.Errorf("Redirects = %d, want %d", got.Redirects, tt.wantHops)
			}
			if loc := r.Location(); loc != tt.wantFragment {
				t.Errorf("Location() = %q, want %q", loc, tt.wantFragment)
			}
			if len(rec.seen) != 1 {
				t.Fatalf("presented %d views, want exactly 1", len(rec.seen))
			}
			if !reflect.DeepEqual(rec.seen[0], got) {
				t.Errorf("presented %+v, returned %+v", rec.seen[0], got)
			}
		})
	}
}

// TestNavigate_UnknownRouteIsHome renders home for unregistered routes.
func TestNavigate_UnknownRouteIsHome(t *testing.T) {
	for _, auth := range []fakeAuth{anonymous, user, admin} {
		a := auth
		r := New(route.DefaultTable(), &a, nil, Options{})
		got, err := r.Navigate("#/nonexistent")
		if err != nil {
			t.Fatalf("Navigate() error = %v", err)
		}
		if got.View != route.ViewHome || got.Route != "nonexistent" || got.Redirects != 0 {
			t.Errorf("Navigate(unknown) = %+v, want home view on the unknown route", got)
		}
	}
}

// TestNavigate_PassesQuery hands the parsed query to the view.
func TestNavigate_PassesQuery(t *testing.T) {
	r := New(route.DefaultTable(), &admin, nil, Options{})
	got, err := r.Navigate("#/accounts-admin?page=2&sort=email")
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if got.View != route.ViewAccountsAdmin {
		t.Errorf("View = %q, want %q", got.View, route.ViewAccountsAdmin)
	}
	if got.Query.Get("page") != "2" || got.Query.Get("sort") != "email" {
		t.Errorf("Query = %v, want page=2 sort=email", got.Query)
	}
	if loc := r.Location(); loc != "#/accounts-admin?page=2&sort=email" {
		t.Errorf("Location() = %q", loc)
	}
}

// TestNavigate_RedirectLoopIsBounded stops a guard cycle at the bound.
func TestNavigate_RedirectLoopIsBounded(t *testing.T) {
	// Login guarded behind itself never settles for an anonymous visitor.
	table := route.NewTable().
		Add(route.Home, route.ViewHome, route.Public).
		Add(route.Login, route.ViewLogin, route.Protected).
		Add(route.Profile, route.ViewProfile, route.Protected)

	tests := []struct {
		name string
		max  int
		want int
	}{
		{"default bound", 0, DefaultMaxRedirects},
		{"custom bound", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r := New(table, &anonymous, rec, Options{MaxRedirects: tt.max})

			got, err := r.Navigate("#/profile")
			if !errors.Is(err, ErrTooManyRedirects) {
				t.Fatalf("error = %v, want ErrTooManyRedirects", err)
			}
			if got.View != route.ViewHome {
				t.Errorf("View = %q, want home", got.View)
			}
			if got.Redirects != tt.want {
				t.Errorf("Redirects = %d, want %d", got.Redirects, tt.want)
			}
			if loc := r.Location(); loc != "#/" {
				t.Errorf("Location() = %q, want #/", loc)
			}
			if len(rec.seen) != 1 {
				t.Errorf("presented %d views, want 1", len(rec.seen))
			}
		})
	}
}

// TestReevaluate_FollowsSessionChanges re-guards the current route.
func TestReevaluate_FollowsSessionChanges(t *testing.T) {
	auth := fakeAuth{authenticated: true, admin: true}
	r := New(route.DefaultTable(), &auth, nil, Options{})

	if _, err := r.Navigate("#/departments-admin"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if v := r.Active().View; v != route.ViewDepartmentsAdmin {
		t.Fatalf("Active().View = %q, want %q", v, route.ViewDepartmentsAdmin)
	}

	// Demoted to a plain user: the admin view is no longer allowed.
	auth.admin = false
	got, err := r.Reevaluate()
	if err != nil {
		t.Fatalf("Reevaluate() error = %v", err)
	}
	if got.View != route.ViewHome {
		t.Errorf("after demotion View = %q, want home", got.View)
	}

	// Logged out while on home: home stays.
	auth.authenticated = false
	got, err = r.Reevaluate()
	if err != nil {
		t.Fatalf("Reevaluate() error = %v", err)
	}
	if got.View != route.ViewHome {
		t.Errorf("after logout View = %q, want home", got.View)
	}
}

// TestReevaluate_LogoutOnProtectedView sends the visitor to login.
func TestReevaluate_LogoutOnProtectedView(t *testing.T) {
	auth := fakeAuth{authenticated: true}
	r := New(route.DefaultTable(), &auth, nil, Options{})
	if _, err := r.Navigate("#/requests-user"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	auth.authenticated = false
	got, err := r.Reevaluate()
	if err != nil {
		t.Fatalf("Reevaluate() error = %v", err)
	}
	if got.View != route.ViewLogin || r.Location() != "#/login" {
		t.Errorf("after logout = %+v at %q, want login view at #/login", got, r.Location())
	}
}

func TestNew_StartsAtRoot(t *testing.T) {
	r := New(route.DefaultTable(), &anonymous, PresenterFunc(func(Activation) {}), Options{})
	if loc := r.Location(); loc != "#/" {
		t.Errorf("Location() = %q, want #/", loc)
	}
	got, err := r.Reevaluate()
	if err != nil {
		t.Fatalf("Reevaluate() error = %v", err)
	}
	if got.View != route.ViewHome {
		t.Errorf("View = %q, want home", got.View)
	}
}
