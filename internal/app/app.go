package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"records/internal/adapters/storage"
	"records/internal/adapters/storage/keyvalue"
	"records/internal/application/datastore"
	"records/internal/application/orchestrators"
	"records/internal/application/router"
	"records/internal/application/session"
	"records/internal/config"
	"records/internal/domain/request"
	"records/internal/domain/route"
)

// App owns the Store, Session and Router and hands each the references it
// needs. Nothing else holds application state.
type App struct {
	KV      keyvalue.Store
	Store   *datastore.Store
	Session *session.Session
	Router  *router.Router

	// Stats totals SQL statements; nil on backends without a TimedDB.
	Stats *storage.StatementStats

	close func() error
}

// OpenBackend opens the key/value storage selected by cfg. SQL statements
// are reported to stats when it is non-nil.
// POST: The returned close func releases the connection; it is never nil
func OpenBackend(ctx context.Context, cfg config.StorageConfig, stats *storage.StatementStats) (keyvalue.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		return keyvalue.NewMemoryStore(), noop, nil

	case config.DriverSQLite, config.DriverMySQL:
		var (
			db  *sql.DB
			err error
		)
		if cfg.Driver == config.DriverSQLite {
			db, err = storage.OpenSQLite(cfg.SQLitePath)
		} else {
			db, err = storage.OpenMySQL(cfg.MySQLDSN)
		}
		if err != nil {
			return nil, noop, err
		}
		timed := storage.NewTimedDB(db, cfg.SlowQuery)
		if stats != nil {
			timed.OnStatement(stats.Observe)
		}
		if err := storage.InitDB(ctx, timed); err != nil {
			_ = timed.Close()
			return nil, noop, err
		}
		return keyvalue.NewSQLStore(timed), timed.Close, nil

	case config.DriverMongo:
		client, kv, err := keyvalue.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, noop, err
		}
		return kv, func() error { return client.Disconnect(context.Background()) }, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}
}

// Open builds the App on the backend named in cfg.
func Open(ctx context.Context, cfg *config.Config, presenter router.Presenter) (*App, error) {
	var stats *storage.StatementStats
	if cfg.Storage.Driver == config.DriverSQLite || cfg.Storage.Driver == config.DriverMySQL {
		stats = storage.NewStatementStats()
	}
	kv, closeFn, err := OpenBackend(ctx, cfg.Storage, stats)
	if err != nil {
		return nil, err
	}
	a, err := New(ctx, cfg, kv, presenter)
	if err != nil {
		_ = closeFn()
		return nil, err
	}
	a.Stats = stats
	a.close = closeFn
	slog.Info("app_event", "event", "opened", "driver", cfg.Storage.Driver)
	return a, nil
}

// New wires the core around kv: the Store is loaded, the Router follows
// every Session change, and a persisted token is resumed.
// PRE: kv is open
// POST: Router has activated the view for the root fragment
func New(ctx context.Context, cfg *config.Config, kv keyvalue.Store, presenter router.Presenter) (*App, error) {
	store := datastore.New(kv, datastore.Options{
		Scheme:            cfg.Auth.Scheme(),
		UniqueEmployeeIDs: cfg.Records.UniqueEmployeeIDs,
	})
	if err := store.Load(ctx); err != nil {
		return nil, err
	}

	sess := session.New(store, kv)
	rt := router.New(route.DefaultTable(), sess, presenter, router.Options{MaxRedirects: cfg.Router.MaxRedirects})
	sess.Subscribe(func() {
		if _, err := rt.Reevaluate(); err != nil {
			slog.Warn("route_event", "event", "reevaluate_failed", "error", err)
		}
	})

	a := &App{KV: kv, Store: store, Session: sess, Router: rt, close: func() error { return nil }}
	if _, err := sess.Resume(ctx); err != nil {
		return nil, err
	}
	if !sess.IsAuthenticated() {
		if _, err := rt.Navigate(rt.Location()); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.close()
}

// Navigate moves to fragment through the guard.
func (a *App) Navigate(fragment string) (router.Activation, error) {
	return a.Router.Navigate(fragment)
}

// Login signs in and moves to the profile view.
func (a *App) Login(ctx context.Context, email, password string) (router.Activation, error) {
	if _, err := a.Session.Login(ctx, email, password); err != nil {
		return a.Router.Active(), err
	}
	return a.Router.Navigate(route.Fragment(route.Profile))
}

// Logout signs out. The Router re-evaluates through the session hook.
func (a *App) Logout(ctx context.Context) error {
	return a.Session.Logout(ctx)
}

// Register creates an unverified account and moves to the verify view.
func (a *App) Register(ctx context.Context, in orchestrators.RegisterInput) (router.Activation, error) {
	next, err := orchestrators.ExecuteRegister(ctx, in, orchestrators.RegisterDeps{AccountStore: a.Store, Markers: a.KV})
	if err != nil {
		return a.Router.Active(), err
	}
	return a.Router.Navigate(next)
}

// VerifyEmail confirms the pending account and moves to the login view.
func (a *App) VerifyEmail(ctx context.Context) (router.Activation, error) {
	next, err := orchestrators.ExecuteVerifyEmail(ctx, orchestrators.VerifyEmailDeps{AccountStore: a.Store, Markers: a.KV})
	if err != nil {
		return a.Router.Active(), err
	}
	return a.Router.Navigate(next)
}

// SubmitRequest files a request for the signed-in user and shows their list.
func (a *App) SubmitRequest(ctx context.Context, in orchestrators.SubmitRequestInput) (request.Request, router.Activation, error) {
	r, next, err := orchestrators.ExecuteSubmitRequest(ctx, in, orchestrators.SubmitRequestDeps{Session: a.Session, RequestStore: a.Store})
	if err != nil {
		return request.Request{}, a.Router.Active(), err
	}
	act, err := a.Router.Navigate(next)
	return r, act, err
}

// DeleteAccount removes another account as the signed-in admin.
func (a *App) DeleteAccount(ctx context.Context, email string) error {
	return orchestrators.ExecuteDeleteAccount(ctx, email, a.adminDeps())
}

// ResetPassword sets another account's password as the signed-in admin.
func (a *App) ResetPassword(ctx context.Context, email, newPassword string) error {
	return orchestrators.ExecuteResetPassword(ctx, email, newPassword, a.adminDeps())
}

func (a *App) adminDeps() orchestrators.ManageAccountDeps {
	return orchestrators.ManageAccountDeps{Session: a.Session, AccountStore: a.Store}
}

// IsUserError reports whether err is one the user caused and can correct,
// as opposed to a storage failure.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
