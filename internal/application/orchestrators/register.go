package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"records/internal/application/datastore"
	"records/internal/domain/account"
	"records/internal/domain/route"
)

// PendingEmailKey holds the email awaiting verification.
const PendingEmailKey = "unverified_email"

// ErrMissingFields is returned when a required form field is blank.
var ErrMissingFields = errors.New("all fields are required")

// AccountStoreForRegister defines the store interface needed by Register.
type AccountStoreForRegister interface {
	CreateAccount(ctx context.Context, in datastore.NewAccount) (account.Account, error)
}

// MarkerStore holds small scalar entries next to the dataset.
type MarkerStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// RegisterInput carries input for the register orchestrator.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	AccountStore AccountStoreForRegister
	Markers      MarkerStore
}

// ExecuteRegister creates an unverified User account and remembers its email
// for the verification step. Returns the fragment to navigate to next.
// PRE: none
// POST: Account stored unverified; PendingEmailKey holds its email
// INVARIANT: Email must be unique
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (string, error) {
	in := datastore.NewAccount{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Password:  strings.TrimSpace(input.Password),
		Role:      account.RoleUser,
	}
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return "", ErrMissingFields
	}
	if err := account.CheckPasswordLength(in.Password); err != nil {
		return "", err
	}

	acct, err := deps.AccountStore.CreateAccount(ctx, in)
	if err != nil {
		slog.Info("auth_event", "event", "register_failed", "email", in.Email, "error", err)
		return "", err
	}
	if err := deps.Markers.Set(ctx, PendingEmailKey, acct.Email); err != nil {
		return "", fmt.Errorf("remember pending email: %w", err)
	}

	slog.Info("auth_event", "event", "registered", "email", acct.Email)
	return route.Fragment(route.VerifyEmail), nil
}
