package projections

import (
	"errors"

	"records/internal/application/session"
	"records/internal/domain/account"
	"records/internal/domain/department"
	"records/internal/domain/employee"
	"records/internal/domain/request"
)

// ErrNotAuthenticated is returned by views that belong to a signed-in user.
var ErrNotAuthenticated = errors.New("no signed-in user")

// AccountReader interface for account queries.
type AccountReader interface {
	Accounts() []account.Account
	FindAccountByEmail(email string) (account.Account, bool)
}

// DepartmentReader interface for department queries.
type DepartmentReader interface {
	Departments() []department.Department
}

// EmployeeReader interface for employee queries.
type EmployeeReader interface {
	Employees() []employee.Employee
}

// RequestReader interface for request queries.
type RequestReader interface {
	ListRequestsFor(email string) []request.Request
}

// PrincipalReader reports who is signed in.
type PrincipalReader interface {
	Current() (session.Principal, bool)
}
