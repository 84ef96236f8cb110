package projections

import (
	"context"
	"testing"

	"records/internal/adapters/storage/keyvalue"
	"records/internal/application/datastore"
	"records/internal/application/session"
	"records/internal/domain/department"
	"records/internal/domain/employee"
	"records/internal/domain/request"
)

type fakeSession struct {
	principal *session.Principal
}

func (f fakeSession) Current() (session.Principal, bool) {
	if f.principal == nil {
		return session.Principal{}, false
	}
	return *f.principal, true
}

// newFixtureStore seeds a store with three users, employees and requests.
func newFixtureStore(t *testing.T) *datastore.Store {
	t.Helper()
	ctx := context.Background()
	s := datastore.New(keyvalue.NewMemoryStore(), datastore.Options{})
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	users := []datastore.NewAccount{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Password: "secret1", Verified: true},
		{FirstName: "Bob", LastName: "Smith", Email: "bob@example.com", Password: "secret1"},
		{FirstName: "Carol", LastName: "Adams", Email: "carol@example.com", Password: "secret1", Verified: true},
	}
	for _, u := range users {
		if _, err := s.CreateAccount(ctx, u); err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
	}
	employees := []employee.Employee{
		{ID: "E-3", UserEmail: "jane@example.com", Position: "Developer", Department: "Engineering", HireDate: "2024-03-01"},
		{ID: "E-1", UserEmail: "bob@example.com", Position: "Recruiter", Department: "HR", HireDate: "2023-07-15"},
		{ID: "E-2", UserEmail: "carol@example.com", Position: "Analyst", Department: "Finance"},
	}
	for _, e := range employees {
		if err := s.CreateEmployee(ctx, e); err != nil {
			t.Fatalf("CreateEmployee: %v", err)
		}
	}
	if err := s.CreateDepartment(ctx, department.Department{Name: "Ops", Description: "**Operations** team\n<script>alert(1)</script>"}); err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}

	reqs := []datastore.NewRequest{
		{Type: "Equipment", Items: []request.Item{{Name: "Laptop", Qty: 2}}, EmployeeEmail: "jane@example.com"},
		{Type: "Supplies", Items: []request.Item{{Name: "Pens", Qty: 10}, {Name: "Paper", Qty: 1}}, EmployeeEmail: "jane@example.com"},
		{Type: "Equipment", Items: []request.Item{{Name: "Monitor", Qty: 1}}, EmployeeEmail: "bob@example.com"},
	}
	for _, r := range reqs {
		if _, err := s.CreateRequest(ctx, r); err != nil {
			t.Fatalf("CreateRequest: %v", err)
		}
	}
	return s
}

func as(email, first, last, role string) fakeSession {
	return fakeSession{principal: &session.Principal{Email: email, FirstName: first, LastName: last, Role: role}}
}
