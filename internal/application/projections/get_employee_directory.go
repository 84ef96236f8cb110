package projections

import (
	"context"
	"net/url"

	"records/internal/application/listutil"
)

// Sortable columns and filters of the employee table.
var (
	EmployeeSortColumns = []string{"id", "name", "position", "department", "hireDate"}
	EmployeeFilterKeys  = []string{"department"}
)

// GetEmployeeDirectoryQuery carries the fragment query of the view.
type GetEmployeeDirectoryQuery struct {
	Params url.Values
}

// GetEmployeeDirectoryDeps holds dependencies for GetEmployeeDirectory.
type GetEmployeeDirectoryDeps struct {
	AccountStore    AccountReader
	DepartmentStore DepartmentReader
	EmployeeStore   EmployeeReader
}

// EmployeeRow is an employee joined to its account and department.
type EmployeeRow struct {
	Index      int // position in the store, for update and delete
	ID         string
	Name       string
	Email      string
	Position   string
	Department string

	// DepartmentDescription is empty when the department no longer exists.
	DepartmentDescription string
	HireDate              string
}

// GetEmployeeDirectoryResult carries one page of rows.
type GetEmployeeDirectoryResult struct {
	Rows []EmployeeRow
	Page listutil.PageInfo
	Sort listutil.SortParams
}

var employeeSortKeys = map[string]func(EmployeeRow) string{
	"id":         func(r EmployeeRow) string { return r.ID },
	"name":       func(r EmployeeRow) string { return r.Name },
	"position":   func(r EmployeeRow) string { return r.Position },
	"department": func(r EmployeeRow) string { return r.Department },
	"hireDate":   func(r EmployeeRow) string { return r.HireDate },
}

// QueryGetEmployeeDirectory builds the admin employee table.
// PRE: none
// POST: Every employee appears once; dangling department names are kept
func QueryGetEmployeeDirectory(_ context.Context, query GetEmployeeDirectoryQuery, deps GetEmployeeDirectoryDeps) (GetEmployeeDirectoryResult, error) {
	lp := listutil.ParseListParams(query.Params, EmployeeSortColumns, EmployeeFilterKeys)

	descriptions := make(map[string]string)
	for _, d := range deps.DepartmentStore.Departments() {
		descriptions[d.Name] = d.Description
	}

	var rows []EmployeeRow
	for i, e := range deps.EmployeeStore.Employees() {
		if dept, ok := lp.Filters["department"]; ok && e.Department != dept {
			continue
		}
		row := EmployeeRow{
			Index:                 i,
			ID:                    e.ID,
			Email:                 e.UserEmail,
			Position:              e.Position,
			Department:            e.Department,
			DepartmentDescription: descriptions[e.Department],
			HireDate:              e.HireDate,
		}
		if acct, ok := deps.AccountStore.FindAccountByEmail(e.UserEmail); ok {
			row.Name = acct.FullName()
		}
		if !listutil.MatchesSearch(lp.Search, row.ID, row.Name, row.Email, row.Position, row.Department) {
			continue
		}
		rows = append(rows, row)
	}

	listutil.SortBy(rows, lp.SortParams, employeeSortKeys)
	page, info := listutil.Paginate(rows, lp.PageParams)
	return GetEmployeeDirectoryResult{Rows: page, Page: info, Sort: lp.SortParams}, nil
}
