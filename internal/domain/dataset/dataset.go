package dataset

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"records/internal/domain/account"
	"records/internal/domain/department"
	"records/internal/domain/employee"
	"records/internal/domain/request"
)

// StorageKey is the key the serialized dataset lives under.
const StorageKey = "db"

// Seed values used whenever persisted state is absent or invalid.
const (
	SeedAdminEmail    = "admin@example.com"
	SeedAdminPassword = "Password123!"
)

// SeedAdminID is derived from a fixed name so every reseed produces the
// same admin identity.
var SeedAdminID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("records:seed-admin")).String()

// ErrCorruptState reports a blob that cannot be used as a dataset.
var ErrCorruptState = errors.New("persisted dataset is unreadable or incomplete")

// Dataset is the whole persisted aggregate. Slice order is display order.
type Dataset struct {
	Accounts    []account.Account       `json:"accounts"`
	Departments []department.Department `json:"departments"`
	Employees   []employee.Employee     `json:"employees"`
	Requests    []request.Request       `json:"requests"`
}

// wire mirrors Dataset with pointer slices so a missing collection can be
// told apart from an empty one.
type wire struct {
	Accounts    *[]account.Account       `json:"accounts"`
	Departments *[]department.Department `json:"departments"`
	Employees   *[]employee.Employee     `json:"employees"`
	Requests    *[]request.Request       `json:"requests"`
}

// Seed builds the bootstrap dataset: one verified Admin and two departments.
// PRE: scheme is non-nil
// POST: Returns a dataset with empty employees and requests
func Seed(scheme account.Scheme) (Dataset, error) {
	password, err := scheme.Encode(SeedAdminPassword)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{
		Accounts: []account.Account{{
			ID:        SeedAdminID,
			FirstName: "Admin",
			LastName:  "User",
			Email:     SeedAdminEmail,
			Password:  password,
			Role:      account.RoleAdmin,
			Verified:  true,
		}},
		Departments: []department.Department{
			{Name: "Engineering", Description: "Software team"},
			{Name: "HR", Description: "Human Resources"},
		},
		Employees: []employee.Employee{},
		Requests:  []request.Request{},
	}, nil
}

// Decode parses a persisted blob.
// PRE: none
// POST: Returns ErrCorruptState if the blob is not JSON or lacks accounts/departments
func Decode(blob []byte) (Dataset, error) {
	var w wire
	if err := json.Unmarshal(blob, &w); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if w.Accounts == nil || w.Departments == nil {
		return Dataset{}, fmt.Errorf("%w: missing required collections", ErrCorruptState)
	}
	d := Dataset{
		Accounts:    *w.Accounts,
		Departments: *w.Departments,
		Employees:   []employee.Employee{},
		Requests:    []request.Request{},
	}
	if w.Employees != nil {
		d.Employees = *w.Employees
	}
	if w.Requests != nil {
		d.Requests = *w.Requests
	}
	return d, nil
}

// Encode serializes the dataset into a single blob.
func (d Dataset) Encode() ([]byte, error) {
	return json.Marshal(d.normalized())
}

// Clone returns a deep copy so callers can build the next state without
// touching the current one.
// INVARIANT: d is not mutated
func (d Dataset) Clone() Dataset {
	c := Dataset{
		Accounts:    append([]account.Account{}, d.Accounts...),
		Departments: append([]department.Department{}, d.Departments...),
		Employees:   append([]employee.Employee{}, d.Employees...),
		Requests:    make([]request.Request, len(d.Requests)),
	}
	for i, r := range d.Requests {
		r.Items = append([]request.Item{}, r.Items...)
		c.Requests[i] = r
	}
	return c
}

// normalized replaces nil slices so they serialize as [] rather than null.
func (d Dataset) normalized() Dataset {
	if d.Accounts == nil {
		d.Accounts = []account.Account{}
	}
	if d.Departments == nil {
		d.Departments = []department.Department{}
	}
	if d.Employees == nil {
		d.Employees = []employee.Employee{}
	}
	if d.Requests == nil {
		d.Requests = []request.Request{}
	}
	return d
}
