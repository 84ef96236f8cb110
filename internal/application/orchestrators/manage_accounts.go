package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"records/internal/application/datastore"
)

// ErrNotAuthorized is returned when a non-admin attempts an admin command.
var ErrNotAuthorized = errors.New("admin role required")

// AccountStoreForAdmin defines the store interface needed by the admin
// account commands.
type AccountStoreForAdmin interface {
	DeleteAccount(ctx context.Context, actor datastore.Actor, email string) error
	ResetPassword(ctx context.Context, actor datastore.Actor, email, newPassword string) error
}

// ManageAccountDeps holds dependencies for the admin account commands.
type ManageAccountDeps struct {
	Session      CurrentPrincipal
	AccountStore AccountStoreForAdmin
}

// ExecuteDeleteAccount removes an account on behalf of the signed-in admin.
// PRE: Session principal is an Admin
// INVARIANT: The acting admin cannot delete themself
func ExecuteDeleteAccount(ctx context.Context, email string, deps ManageAccountDeps) error {
	actor, err := requireAdmin(deps.Session)
	if err != nil {
		return err
	}
	if err := deps.AccountStore.DeleteAccount(ctx, actor, email); err != nil {
		return err
	}
	slog.Info("admin_event", "event", "account_deleted", "actor", actor.Email, "email", email)
	return nil
}

// ExecuteResetPassword sets a new password for another account.
// PRE: Session principal is an Admin
// INVARIANT: The acting admin cannot reset their own password here
func ExecuteResetPassword(ctx context.Context, email, newPassword string, deps ManageAccountDeps) error {
	actor, err := requireAdmin(deps.Session)
	if err != nil {
		return err
	}
	if err := deps.AccountStore.ResetPassword(ctx, actor, email, newPassword); err != nil {
		return err
	}
	slog.Info("admin_event", "event", "password_reset", "actor", actor.Email, "email", email)
	return nil
}

func requireAdmin(s CurrentPrincipal) (datastore.Actor, error) {
	p, ok := s.Current()
	if !ok {
		return datastore.Actor{}, ErrNotAuthenticated
	}
	if !p.IsAdmin() {
		return datastore.Actor{}, ErrNotAuthorized
	}
	return datastore.Actor{ID: p.ID, Email: p.Email}, nil
}
