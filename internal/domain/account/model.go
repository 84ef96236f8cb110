package account

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
	MaxNameLength  = 100
)

// MinPasswordLength is the shortest password accepted at registration or reset.
const MinPasswordLength = 6

// MaxBcryptPasswordLength is the longest password bcrypt can hash, in bytes.
const MaxBcryptPasswordLength = 72

// Role constants
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleUser}

// Domain errors
var (
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrInvalidEmail       = errors.New("email must contain '@'")
	ErrEmailTooLong       = errors.New("email cannot exceed 254 characters")
	ErrEmptyName          = errors.New("first and last name are required")
	ErrNameTooLong        = errors.New("name cannot exceed 100 characters")
	ErrInvalidRole        = errors.New("role must be one of: Admin, User")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
	ErrPasswordEncoding   = errors.New("password could not be encoded")
	ErrPasswordTooLong    = errors.New("password cannot exceed 72 bytes")
	ErrPasswordNotEncoded = errors.New("password is not in stored form")
)

// Account is the identity of a person who can log in.
// Password holds whatever the configured Scheme produced; under the
// plaintext scheme that is the cleartext password.
type Account struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(a.FirstName) == "" || strings.TrimSpace(a.LastName) == "" {
		return ErrEmptyName
	}
	if len(a.FirstName) > MaxNameLength || len(a.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if !IsValidRole(a.Role) {
		return ErrInvalidRole
	}
	return nil
}

// FullName joins first and last name for display.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// IsAdmin returns true if the account has admin role.
// INVARIANT: Account fields are not mutated
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CheckPasswordLength enforces the minimum password length.
func CheckPasswordLength(plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// IsValidRole reports whether role is one of ValidRoles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Scheme turns a plaintext password into its stored form and compares
// candidates against a stored value.
type Scheme interface {
	Encode(plaintext string) (string, error)
	Matches(stored, plaintext string) bool
	IsEncoded(stored string) bool
}

// PlaintextScheme stores passwords exactly as given. This is the default
// and keeps the persisted blob compatible with the browser app; it offers
// no protection for the stored credentials.
type PlaintextScheme struct{}

// Encode returns plaintext unchanged.
func (PlaintextScheme) Encode(plaintext string) (string, error) {
	return plaintext, nil
}

// Matches compares stored and plaintext byte for byte.
func (PlaintextScheme) Matches(stored, plaintext string) bool {
	return stored == plaintext
}

// IsEncoded is always true: any string is a stored plaintext password.
func (PlaintextScheme) IsEncoded(string) bool {
	return true
}

// BcryptScheme hashes passwords with bcrypt. Opt-in only.
type BcryptScheme struct {
	Cost int
}

// Encode hashes plaintext with the configured cost.
// POST: Returns a bcrypt hash string, or ErrPasswordTooLong past 72 bytes
func (s BcryptScheme) Encode(plaintext string) (string, error) {
	if len(plaintext) > MaxBcryptPasswordLength {
		return "", ErrPasswordTooLong
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", errors.Join(ErrPasswordEncoding, err)
	}
	return string(hash), nil
}

// Matches verifies plaintext against a bcrypt hash.
// INVARIANT: stored is not mutated
func (BcryptScheme) Matches(stored, plaintext string) bool {
	if stored == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}

// IsEncoded reports whether stored parses as a bcrypt hash.
func (BcryptScheme) IsEncoded(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}
