package request

import (
	"errors"
	"strings"
)

// DateLayout is how a request's creation date is recorded.
const DateLayout = "2006-01-02"

// Status constants
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Common request types offered by the request form. Type is free text;
// these are not enforced.
const (
	TypeEquipment = "Equipment"
	TypeSupplies  = "Supplies"
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{StatusPending, StatusApproved, StatusRejected}

// Domain errors
var (
	ErrEmptyType     = errors.New("request type is required")
	ErrInvalidItems  = errors.New("request needs at least one item with a name and quantity of 1 or more")
	ErrInvalidStatus = errors.New("status must be one of: Pending, Approved, Rejected")
	ErrEmptyOwner    = errors.New("request must name the submitting account")
)

// Item is a single requested line.
type Item struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Request is a supply or equipment request raised by an account.
type Request struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Items         []Item `json:"items"`
	Status        string `json:"status"`
	Date          string `json:"date"`
	EmployeeEmail string `json:"employeeEmail"`
}

// Validate checks if the Request has valid data.
// PRE: Request struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: Items is non-empty and every Qty >= 1
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Type) == "" {
		return ErrEmptyType
	}
	if err := ValidateItems(r.Items); err != nil {
		return err
	}
	if !IsValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(r.EmployeeEmail) == "" {
		return ErrEmptyOwner
	}
	return nil
}

// ValidateItems rejects empty item lists, blank names and quantities below 1.
func ValidateItems(items []Item) error {
	if len(items) == 0 {
		return ErrInvalidItems
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" || it.Qty < 1 {
			return ErrInvalidItems
		}
	}
	return nil
}

// TotalQty sums item quantities.
func (r *Request) TotalQty() int {
	total := 0
	for _, it := range r.Items {
		total += it.Qty
	}
	return total
}

// IsValidStatus reports whether status is one of ValidStatuses.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
