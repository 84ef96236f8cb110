package employee

import (
	"errors"
	"strings"
	"time"
)

// HireDateLayout is the accepted hire date format.
const HireDateLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyID         = errors.New("employee id is required")
	ErrEmptyUserEmail  = errors.New("employee user email is required")
	ErrEmptyPosition   = errors.New("employee position is required")
	ErrInvalidHireDate = errors.New("hire date must be formatted YYYY-MM-DD")
)

// Employee links an account to organizational metadata.
// UserEmail references Account.Email; Department references Department.Name
// by value and is not checked for existence.
type Employee struct {
	ID         string `json:"id"`
	UserEmail  string `json:"userEmail"`
	Position   string `json:"position"`
	Department string `json:"department"`
	HireDate   string `json:"hireDate"`
}

// Validate checks field shape only; references are checked by the store.
// PRE: Employee struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Employee) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(e.UserEmail) == "" {
		return ErrEmptyUserEmail
	}
	if strings.TrimSpace(e.Position) == "" {
		return ErrEmptyPosition
	}
	if e.HireDate != "" {
		if _, err := time.Parse(HireDateLayout, e.HireDate); err != nil {
			return ErrInvalidHireDate
		}
	}
	return nil
}
