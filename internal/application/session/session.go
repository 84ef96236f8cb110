package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"records/internal/domain/account"
)

// TokenKey is the storage key holding the signed-in email.
const TokenKey = "auth_token"

// ErrInvalidCredentials collapses unknown email, wrong password and
// unverified account into one error.
var ErrInvalidCredentials = errors.New("invalid email or password, or email not verified")

// AccountLookup defines the store interface needed by Session.
type AccountLookup interface {
	FindAccountByCredentials(email, password string) (account.Account, bool)
	FindAccountByEmail(email string) (account.Account, bool)
}

// TokenStore persists the session token.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Principal is the authenticated identity, copied from the account at
// login or resume. Later edits to the account are not reflected.
type Principal struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// IsAdmin returns true if the principal has the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == account.RoleAdmin
}

// Listener is called after every change of authentication state.
type Listener func()

// Session tracks who is signed in. The token is the bare account email.
type Session struct {
	accounts AccountLookup
	tokens   TokenStore

	mu        sync.RWMutex
	principal *Principal
	listeners []Listener
}

// New creates an anonymous Session.
func New(accounts AccountLookup, tokens TokenStore) *Session {
	return &Session{accounts: accounts, tokens: tokens}
}

// Subscribe registers fn to run after login, logout and resume.
func (s *Session) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Login authenticates and persists the token.
// PRE: none
// POST: On success the session is Authenticated and subscribers are notified
// INVARIANT: On failure the previous state is kept
func (s *Session) Login(ctx context.Context, email, password string) (Principal, error) {
	acct, ok := s.accounts.FindAccountByCredentials(email, password)
	if !ok {
		slog.Info("auth_event", "event", "login_failed", "email", email)
		return Principal{}, ErrInvalidCredentials
	}
	if err := s.tokens.Set(ctx, TokenKey, acct.Email); err != nil {
		return Principal{}, fmt.Errorf("persist session token: %w", err)
	}

	p := principalOf(acct)
	s.setPrincipal(&p)
	slog.Info("auth_event", "event", "login_success", "email", acct.Email, "role", acct.Role)
	s.notify()
	return p, nil
}

// Logout clears the token and the principal.
// POST: Session is Anonymous and subscribers are notified
func (s *Session) Logout(ctx context.Context) error {
	if err := s.tokens.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	prev, _ := s.Current()
	s.setPrincipal(nil)
	slog.Info("auth_event", "event", "logout", "email", prev.Email)
	s.notify()
	return nil
}

// Resume restores the principal from a persisted token. Neither the password
// nor the verified flag is checked. A token naming no account is ignored.
// POST: Returns true when the session is Authenticated afterwards
func (s *Session) Resume(ctx context.Context) (bool, error) {
	email, ok, err := s.tokens.Get(ctx, TokenKey)
	if err != nil {
		return false, fmt.Errorf("read session token: %w", err)
	}
	if !ok || email == "" {
		return false, nil
	}
	acct, found := s.accounts.FindAccountByEmail(email)
	if !found {
		slog.Info("auth_event", "event", "resume_skipped", "email", email, "reason", "unknown_account")
		return false, nil
	}

	p := principalOf(acct)
	s.setPrincipal(&p)
	slog.Info("auth_event", "event", "resume", "email", acct.Email, "role", acct.Role)
	s.notify()
	return true, nil
}

// Current returns the principal, if any.
func (s *Session) Current() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

// IsAuthenticated reports whether someone is signed in.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// IsAdmin is true only for an Authenticated principal with role Admin.
func (s *Session) IsAdmin() bool {
	p, ok := s.Current()
	return ok && p.IsAdmin()
}

func (s *Session) setPrincipal(p *Principal) {
	s.mu.Lock()
	s.principal = p
	s.mu.Unlock()
}

// notify runs listeners outside the lock so they may read the session.
func (s *Session) notify() {
	s.mu.RLock()
	listeners := append([]Listener{}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

func principalOf(a account.Account) Principal {
	return Principal{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
	}
}
