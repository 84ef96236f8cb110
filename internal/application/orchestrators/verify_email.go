package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"records/internal/application/datastore"
	"records/internal/domain/route"
)

// ErrNoPendingAccount is returned when there is nothing to verify.
var ErrNoPendingAccount = errors.New("no account is waiting for verification")

// AccountStoreForVerify defines the store interface needed by VerifyEmail.
type AccountStoreForVerify interface {
	VerifyAccount(ctx context.Context, email string) error
}

// VerifyEmailDeps holds dependencies for VerifyEmail.
type VerifyEmailDeps struct {
	AccountStore AccountStoreForVerify
	Markers      MarkerStore
}

// ExecuteVerifyEmail simulates following the emailed link: the pending
// account is marked verified and the marker cleared.
// PRE: ExecuteRegister has stored a pending email
// POST: Account verified; PendingEmailKey removed; returns the login fragment
func ExecuteVerifyEmail(ctx context.Context, deps VerifyEmailDeps) (string, error) {
	email, ok, err := deps.Markers.Get(ctx, PendingEmailKey)
	if err != nil {
		return "", fmt.Errorf("read pending email: %w", err)
	}
	if !ok || email == "" {
		return "", ErrNoPendingAccount
	}

	if err := deps.AccountStore.VerifyAccount(ctx, email); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return "", ErrNoPendingAccount
		}
		return "", err
	}
	if err := deps.Markers.Delete(ctx, PendingEmailKey); err != nil {
		return "", fmt.Errorf("clear pending email: %w", err)
	}

	slog.Info("auth_event", "event", "email_verified", "email", email)
	return route.Fragment(route.Login), nil
}
