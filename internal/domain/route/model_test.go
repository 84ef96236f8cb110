package route_test

import (
	"testing"

	"records/internal/domain/route"
)

// TestParse tests fragment normalization.
func TestParse(t *testing.T) {
	tests := []struct {
		fragment  string
		wantRoute string
	}{
		{"", route.Home},
		{"#", route.Home},
		{"#/", route.Home},
		{"#/login", route.Login},
		{"#/employees-admin", route.EmployeesAdmin},
		{"#/nonexistent", "nonexistent"},
		{"#/requests-user?page=2", route.RequestsUser},
		{"  #/profile  ", route.Profile},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			loc := route.Parse(tt.fragment)
			if loc.Route != tt.wantRoute {
				t.Errorf("Parse(%q).Route = %q, want %q", tt.fragment, loc.Route, tt.wantRoute)
			}
			if loc.Query == nil {
				t.Error("Query should never be nil")
			}
		})
	}
}

// TestParse_Query keeps query values for view renders.
func TestParse_Query(t *testing.T) {
	loc := route.Parse("#/accounts-admin?page=3&sort=email&dir=desc")
	if loc.Query.Get("page") != "3" || loc.Query.Get("sort") != "email" || loc.Query.Get("dir") != "desc" {
		t.Errorf("unexpected query: %v", loc.Query)
	}
}

// TestDefaultTable_Classify tests guard classes of the route surface.
func TestDefaultTable_Classify(t *testing.T) {
	table := route.DefaultTable()
	tests := []struct {
		id   string
		want route.Access
	}{
		{route.Home, route.Public},
		{route.Login, route.Public},
		{route.Register, route.Public},
		{route.VerifyEmail, route.Public},
		{route.Profile, route.Protected},
		{route.RequestsUser, route.Protected},
		{route.EmployeesAdmin, route.AdminOnly},
		{route.DepartmentsAdmin, route.AdminOnly},
		{route.AccountsAdmin, route.AdminOnly},
		{"nonexistent", route.Public},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := table.Classify(tt.id); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

// TestDefaultTable_Resolve tests view lookup.
func TestDefaultTable_Resolve(t *testing.T) {
	table := route.DefaultTable()
	if v, ok := table.Resolve(route.Home); !ok || v != route.ViewHome {
		t.Errorf("Resolve(home) = %v, %v", v, ok)
	}
	if _, ok := table.Resolve("nonexistent"); ok {
		t.Error("unknown route should not resolve")
	}
}

// TestFragment renders canonical fragments.
func TestFragment(t *testing.T) {
	if got := route.Fragment(route.Login); got != "#/login" {
		t.Errorf("Fragment(login) = %q", got)
	}
	if got := route.Fragment(route.Home); got != "#/" {
		t.Errorf("Fragment(home) = %q", got)
	}
}
