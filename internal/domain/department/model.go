package department

import (
	"errors"
	"strings"
)

// MaxNameLength caps department names.
const MaxNameLength = 100

// Domain errors
var (
	ErrEmptyName   = errors.New("department name is required")
	ErrNameTooLong = errors.New("department name cannot exceed 100 characters")
)

// Department is an organizational unit. Name is its unique key.
// Description is Markdown.
type Department struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks if the Department has valid data.
// PRE: Department struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Department) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
