package projections

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"records/internal/domain/account"
	"records/internal/domain/request"
)

// TestQueryGetProfile tests the profile panel.
func TestQueryGetProfile(t *testing.T) {
	ctx := context.Background()
	s := newFixtureStore(t)

	tests := []struct {
		name        string
		session     fakeSession
		wantErr     error
		wantStale   bool
		wantVerify  bool
		wantTotal   int
		wantPending int
	}{
		{"anonymous", fakeSession{}, ErrNotAuthenticated, false, false, 0, 0},
		{"jane", as("jane@example.com", "Jane", "Doe", account.RoleUser), nil, false, true, 2, 2},
		{"deleted account", as("ghost@example.com", "Ghost", "User", account.RoleUser), nil, true, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QueryGetProfile(ctx, GetProfileDeps{Session: tt.session, AccountStore: s, RequestStore: s})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Stale != tt.wantStale || got.Verified != tt.wantVerify {
				t.Errorf("Stale/Verified = %v/%v", got.Stale, got.Verified)
			}
			if got.TotalRequests != tt.wantTotal || got.PendingRequests != tt.wantPending {
				t.Errorf("requests = %d total, %d pending", got.TotalRequests, got.PendingRequests)
			}
		})
	}
}

// TestQueryGetMyRequests tests the personal requests table.
func TestQueryGetMyRequests(t *testing.T) {
	ctx := context.Background()
	s := newFixtureStore(t)
	jane := as("jane@example.com", "Jane", "Doe", account.RoleUser)

	tests := []struct {
		name      string
		session   fakeSession
		params    url.Values
		wantErr   error
		wantTypes []string
	}{
		{"anonymous", fakeSession{}, nil, ErrNotAuthenticated, nil},
		{"all of mine", jane, nil, nil, []string{"Equipment", "Supplies"}},
		{"sorted by type descending", jane, url.Values{"sort": {"type"}, "dir": {"desc"}}, nil, []string{"Supplies", "Equipment"}},
		{"search by item", jane, url.Values{"q": {"pens"}}, nil, []string{"Supplies"}},
		{"filter by status", jane, url.Values{"status": {request.StatusApproved}}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QueryGetMyRequests(ctx, GetMyRequestsQuery{Params: tt.params}, GetMyRequestsDeps{Session: tt.session, RequestStore: s})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got.Rows) != len(tt.wantTypes) {
				t.Fatalf("rows = %+v, want types %v", got.Rows, tt.wantTypes)
			}
			for i, want := range tt.wantTypes {
				if got.Rows[i].Type != want {
					t.Errorf("row %d type = %s, want %s", i, got.Rows[i].Type, want)
				}
			}
		})
	}
}

// TestQueryGetMyRequests_RowShape checks the item summary columns.
func TestQueryGetMyRequests_RowShape(t *testing.T) {
	s := newFixtureStore(t)
	got, err := QueryGetMyRequests(context.Background(), GetMyRequestsQuery{Params: url.Values{"q": {"paper"}}},
		GetMyRequestsDeps{Session: as("jane@example.com", "Jane", "Doe", account.RoleUser), RequestStore: s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(got.Rows))
	}
	row := got.Rows[0]
	if row.Items != "Pens x10, Paper x1" || row.TotalQty != 11 || row.Status != request.StatusPending {
		t.Errorf("unexpected row: %+v", row)
	}
}

// TestQueryGetEmployeeDirectory tests the joined employee table.
func TestQueryGetEmployeeDirectory(t *testing.T) {
	ctx := context.Background()
	s := newFixtureStore(t)
	deps := GetEmployeeDirectoryDeps{AccountStore: s, DepartmentStore: s, EmployeeStore: s}

	t.Run("joins names and descriptions", func(t *testing.T) {
		got, err := QueryGetEmployeeDirectory(ctx, GetEmployeeDirectoryQuery{}, deps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Rows) != 3 {
			t.Fatalf("rows = %d, want 3", len(got.Rows))
		}
		jane := got.Rows[0]
		if jane.Name != "Jane Doe" || jane.DepartmentDescription != "Software team" || jane.Index != 0 {
			t.Errorf("unexpected row: %+v", jane)
		}
		carol := got.Rows[2]
		if carol.Department != "Finance" || carol.DepartmentDescription != "" {
			t.Errorf("missing department should keep name with empty description: %+v", carol)
		}
	})

	t.Run("sorted by id keeps store index", func(t *testing.T) {
		got, _ := QueryGetEmployeeDirectory(ctx, GetEmployeeDirectoryQuery{Params: url.Values{"sort": {"id"}}}, deps)
		ids := []string{got.Rows[0].ID, got.Rows[1].ID, got.Rows[2].ID}
		if strings.Join(ids, ",") != "E-1,E-2,E-3" {
			t.Errorf("ids = %v", ids)
		}
		if got.Rows[0].Index != 1 {
			t.Errorf("E-1 index = %d, want 1", got.Rows[0].Index)
		}
	})

	t.Run("filter and search", func(t *testing.T) {
		got, _ := QueryGetEmployeeDirectory(ctx, GetEmployeeDirectoryQuery{Params: url.Values{"department": {"HR"}}}, deps)
		if len(got.Rows) != 1 || got.Rows[0].Email != "bob@example.com" {
			t.Errorf("department filter rows = %+v", got.Rows)
		}
		got, _ = QueryGetEmployeeDirectory(ctx, GetEmployeeDirectoryQuery{Params: url.Values{"q": {"adams"}}}, deps)
		if len(got.Rows) != 1 || got.Rows[0].ID != "E-2" {
			t.Errorf("search rows = %+v", got.Rows)
		}
	})

	t.Run("deleted department after the fact", func(t *testing.T) {
		if err := s.DeleteDepartment(ctx, 0); err != nil {
			t.Fatalf("DeleteDepartment: %v", err)
		}
		got, _ := QueryGetEmployeeDirectory(ctx, GetEmployeeDirectoryQuery{}, deps)
		if got.Rows[0].Department != "Engineering" || got.Rows[0].DepartmentDescription != "" {
			t.Errorf("unexpected row: %+v", got.Rows[0])
		}
	})
}

// TestQueryGetAccountList tests the admin accounts table.
func TestQueryGetAccountList(t *testing.T) {
	ctx := context.Background()
	s := newFixtureStore(t)
	deps := GetAccountListDeps{AccountStore: s}

	got, err := QueryGetAccountList(ctx, GetAccountListQuery{Params: url.Values{"sort": {"email"}, "per_page": {"5"}}}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	emails := make([]string, 0, len(got.Rows))
	for _, r := range got.Rows {
		emails = append(emails, r.Email)
	}
	want := "admin@example.com,bob@example.com,carol@example.com,jane@example.com"
	if strings.Join(emails, ",") != want {
		t.Errorf("emails = %v", emails)
	}
	if got.Page.Total != 4 || got.Page.PerPage != 5 {
		t.Errorf("page = %+v", got.Page)
	}

	admins, _ := QueryGetAccountList(ctx, GetAccountListQuery{Params: url.Values{"role": {account.RoleAdmin}}}, deps)
	if len(admins.Rows) != 1 || admins.Rows[0].Name != "Admin User" {
		t.Errorf("admin filter rows = %+v", admins.Rows)
	}

	unverified, _ := QueryGetAccountList(ctx, GetAccountListQuery{Params: url.Values{"q": {"smith"}}}, deps)
	if len(unverified.Rows) != 1 || unverified.Rows[0].Verified {
		t.Errorf("search rows = %+v", unverified.Rows)
	}
}

// TestQueryGetDepartmentList tests Markdown rendering and head counts.
func TestQueryGetDepartmentList(t *testing.T) {
	s := newFixtureStore(t)
	got, err := QueryGetDepartmentList(context.Background(), GetDepartmentListDeps{DepartmentStore: s, EmployeeStore: s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(got.Rows))
	}
	if got.Rows[0].Name != "Engineering" || got.Rows[0].Employees != 1 {
		t.Errorf("unexpected row: %+v", got.Rows[0])
	}
	ops := got.Rows[2]
	if !strings.Contains(ops.DescriptionHTML, "<strong>Operations</strong>") {
		t.Errorf("markdown not rendered: %q", ops.DescriptionHTML)
	}
	if strings.Contains(ops.DescriptionHTML, "<script>") {
		t.Errorf("raw HTML leaked: %q", ops.DescriptionHTML)
	}
	if ops.Employees != 0 {
		t.Errorf("Ops employees = %d", ops.Employees)
	}
}
