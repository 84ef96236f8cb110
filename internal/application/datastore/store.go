package datastore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"records/internal/domain/account"
	"records/internal/domain/dataset"
	"records/internal/domain/department"
	"records/internal/domain/employee"
	"records/internal/domain/request"
)

// Store errors
var (
	ErrDuplicateKey      = errors.New("a record with this key already exists")
	ErrUnknownReference  = errors.New("referenced account does not exist")
	ErrSelfDeletion      = errors.New("you cannot delete the account you are signed in with")
	ErrSelfPasswordReset = errors.New("you cannot reset your own password from the admin panel")
	ErrNotFound          = errors.New("record not found")
)

// Backend is the persistence the Store writes its blob through.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Options tune the Store's policies.
type Options struct {
	// Scheme encodes and checks passwords. Defaults to PlaintextScheme.
	Scheme account.Scheme
	// UniqueEmployeeIDs rejects an employee whose ID is already in use.
	// Off by default: employee IDs are caller-supplied labels.
	UniqueEmployeeIDs bool
	// Now stamps request dates. Defaults to time.Now.
	Now func() time.Time
	// NewID generates account and request IDs. Defaults to random UUIDs.
	NewID func() string
}

// NewAccount carries the fields for CreateAccount.
type NewAccount struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string // empty means User
	Verified  bool
}

// NewRequest carries the fields for CreateRequest.
type NewRequest struct {
	Type          string
	Items         []request.Item
	EmployeeEmail string
}

// Store is the single source of truth for accounts, departments,
// employees and requests. Every successful mutation rewrites the whole
// dataset blob; a failed write leaves memory unchanged.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	opts    Options
	data    dataset.Dataset
}

// New creates a Store. Call Load before use.
func New(backend Backend, opts Options) *Store {
	if opts.Scheme == nil {
		opts.Scheme = account.PlaintextScheme{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	return &Store{backend: backend, opts: opts}
}

// Load reads the persisted dataset. An absent, unparsable or incomplete
// blob is replaced by the seed dataset, which is written back at once.
// PRE: none
// POST: Store holds a valid dataset; only backend I/O failures are returned
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.backend.Get(ctx, dataset.StorageKey)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	reason := "absent"
	if ok {
		d, err := dataset.Decode([]byte(raw))
		if err == nil {
			s.data = d
			slog.Debug("store_event", "event", "loaded", "accounts", len(d.Accounts), "requests", len(d.Requests))
			return nil
		}
		reason = err.Error()
	}

	seed, err := dataset.Seed(s.opts.Scheme)
	if err != nil {
		return err
	}
	if err := s.write(ctx, seed); err != nil {
		return err
	}
	s.data = seed
	slog.Warn("store_event", "event", "reseeded", "reason", reason)
	return nil
}

// Save writes the current dataset as one blob.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, s.data)
}

// Snapshot returns a deep copy of the current dataset.
func (s *Store) Snapshot() dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

func (s *Store) write(ctx context.Context, d dataset.Dataset) error {
	blob, err := d.Encode()
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := s.backend.Set(ctx, dataset.StorageKey, string(blob)); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

// commit persists next and only then makes it current.
// PRE: caller holds s.mu for writing
func (s *Store) commit(ctx context.Context, next dataset.Dataset) error {
	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// --- accounts ---

// CreateAccount appends a new account.
// PRE: none
// POST: Account persisted with an encoded password
// INVARIANT: Email is unique across all accounts (case-sensitive)
func (s *Store) CreateAccount(ctx context.Context, in NewAccount) (account.Account, error) {
	role := in.Role
	if role == "" {
		role = account.RoleUser
	}
	acct := account.Account{
		ID:        s.opts.NewID(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      role,
		Verified:  in.Verified,
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfAccount(in.Email) >= 0 {
		return account.Account{}, fmt.Errorf("%w: email %s", ErrDuplicateKey, in.Email)
	}
	if err := account.CheckPasswordLength(in.Password); err != nil {
		return account.Account{}, err
	}
	encoded, err := s.opts.Scheme.Encode(in.Password)
	if err != nil {
		return account.Account{}, err
	}
	acct.Password = encoded

	next := s.data.Clone()
	next.Accounts = append(next.Accounts, acct)
	if err := s.commit(ctx, next); err != nil {
		return account.Account{}, err
	}
	return acct, nil
}

// UpdateAccount replaces the account currently stored under email with a,
// keeping its position and ID. Password must already be in stored form, as
// read back from Accounts or FindAccountByEmail; use ResetPassword to set a
// new cleartext password.
// PRE: a is the complete record
// POST: Account at the same index equals a, with the stored ID
// INVARIANT: Email stays unique; ID never changes
func (s *Store) UpdateAccount(ctx context.Context, email string, a account.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !s.opts.Scheme.IsEncoded(a.Password) {
		return account.ErrPasswordNotEncoded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfAccount(email)
	if idx < 0 {
		return fmt.Errorf("%w: account %s", ErrNotFound, email)
	}
	if a.Email != email && s.indexOfAccount(a.Email) >= 0 {
		return fmt.Errorf("%w: email %s", ErrDuplicateKey, a.Email)
	}
	a.ID = s.data.Accounts[idx].ID

	next := s.data.Clone()
	next.Accounts[idx] = a
	return s.commit(ctx, next)
}

// VerifyAccount marks the account as verified.
func (s *Store) VerifyAccount(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfAccount(email)
	if idx < 0 {
		return fmt.Errorf("%w: account %s", ErrNotFound, email)
	}
	next := s.data.Clone()
	next.Accounts[idx].Verified = true
	return s.commit(ctx, next)
}

// Actor is the principal on whose behalf an admin command runs.
type Actor struct {
	ID    string
	Email string
}

// owns reports whether target is the actor's own account. IDs decide when
// both sides carry one, since an email can be changed by UpdateAccount.
func (a Actor) owns(target account.Account) bool {
	if a.ID != "" && target.ID != "" {
		return a.ID == target.ID
	}
	return a.Email != "" && a.Email == target.Email
}

// DeleteAccount removes the account stored under email on behalf of actor.
// Employees and requests that reference it are left in place.
// PRE: actor is the acting principal
// INVARIANT: An actor can never delete their own account
func (s *Store) DeleteAccount(ctx context.Context, actor Actor, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfAccount(email)
	if idx < 0 {
		return fmt.Errorf("%w: account %s", ErrNotFound, email)
	}
	if actor.owns(s.data.Accounts[idx]) {
		return ErrSelfDeletion
	}
	next := s.data.Clone()
	next.Accounts = append(next.Accounts[:idx], next.Accounts[idx+1:]...)
	return s.commit(ctx, next)
}

// ResetPassword sets a new password for email on behalf of actor.
// PRE: actor is the acting principal
// POST: Password replaced with the encoded newPassword
// INVARIANT: An actor can never reset their own password through this path
func (s *Store) ResetPassword(ctx context.Context, actor Actor, email, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfAccount(email)
	if idx < 0 {
		return fmt.Errorf("%w: account %s", ErrNotFound, email)
	}
	if actor.owns(s.data.Accounts[idx]) {
		return ErrSelfPasswordReset
	}
	if err := account.CheckPasswordLength(newPassword); err != nil {
		return err
	}
	encoded, err := s.opts.Scheme.Encode(newPassword)
	if err != nil {
		return err
	}
	next := s.data.Clone()
	next.Accounts[idx].Password = encoded
	return s.commit(ctx, next)
}

// Accounts lists all accounts in insertion order.
func (s *Store) Accounts() []account.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]account.Account{}, s.data.Accounts...)
}

// FindAccountByEmail looks up an account by exact email.
func (s *Store) FindAccountByEmail(email string) (account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOfAccount(email); idx >= 0 {
		return s.data.Accounts[idx], true
	}
	return account.Account{}, false
}

// FindAccountByCredentials returns the verified account matching email and
// password. Unknown email, wrong password and unverified accounts all
// report false.
func (s *Store) FindAccountByCredentials(email, password string) (account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOfAccount(email)
	if idx < 0 {
		return account.Account{}, false
	}
	acct := s.data.Accounts[idx]
	if !acct.Verified || !s.opts.Scheme.Matches(acct.Password, password) {
		return account.Account{}, false
	}
	return acct, true
}

func (s *Store) indexOfAccount(email string) int {
	for i, a := range s.data.Accounts {
		if a.Email == email {
			return i
		}
	}
	return -1
}

// --- departments ---

// CreateDepartment appends a department.
// INVARIANT: Department names are unique
func (s *Store) CreateDepartment(ctx context.Context, d department.Department) error {
	if err := d.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfDepartment(d.Name, -1) >= 0 {
		return fmt.Errorf("%w: department %s", ErrDuplicateKey, d.Name)
	}
	next := s.data.Clone()
	next.Departments = append(next.Departments, d)
	return s.commit(ctx, next)
}

// UpdateDepartment replaces the department at index.
func (s *Store) UpdateDepartment(ctx context.Context, index int, d department.Department) error {
	if err := d.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.data.Departments) {
		return fmt.Errorf("%w: department #%d", ErrNotFound, index)
	}
	if s.indexOfDepartment(d.Name, index) >= 0 {
		return fmt.Errorf("%w: department %s", ErrDuplicateKey, d.Name)
	}
	next := s.data.Clone()
	next.Departments[index] = d
	return s.commit(ctx, next)
}

// DeleteDepartment removes the department at index. Employees keep the
// department name they were saved with.
func (s *Store) DeleteDepartment(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.data.Departments) {
		return fmt.Errorf("%w: department #%d", ErrNotFound, index)
	}
	next := s.data.Clone()
	next.Departments = append(next.Departments[:index], next.Departments[index+1:]...)
	return s.commit(ctx, next)
}

// Departments lists all departments in insertion order.
func (s *Store) Departments() []department.Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]department.Department{}, s.data.Departments...)
}

// FindDepartment looks up a department by name.
func (s *Store) FindDepartment(name string) (department.Department, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOfDepartment(name, -1); idx >= 0 {
		return s.data.Departments[idx], true
	}
	return department.Department{}, false
}

// indexOfDepartment finds name, ignoring the entry at skip.
func (s *Store) indexOfDepartment(name string, skip int) int {
	for i, d := range s.data.Departments {
		if i != skip && d.Name == name {
			return i
		}
	}
	return -1
}

// --- employees ---

// CreateEmployee appends an employee.
// INVARIANT: UserEmail references an existing account; Department is not checked
func (s *Store) CreateEmployee(ctx context.Context, e employee.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEmployee(e, -1); err != nil {
		return err
	}
	next := s.data.Clone()
	next.Employees = append(next.Employees, e)
	return s.commit(ctx, next)
}

// UpdateEmployee replaces the employee at index.
func (s *Store) UpdateEmployee(ctx context.Context, index int, e employee.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.data.Employees) {
		return fmt.Errorf("%w: employee #%d", ErrNotFound, index)
	}
	if err := s.checkEmployee(e, index); err != nil {
		return err
	}
	next := s.data.Clone()
	next.Employees[index] = e
	return s.commit(ctx, next)
}

// DeleteEmployee removes the employee at index.
func (s *Store) DeleteEmployee(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.data.Employees) {
		return fmt.Errorf("%w: employee #%d", ErrNotFound, index)
	}
	next := s.data.Clone()
	next.Employees = append(next.Employees[:index], next.Employees[index+1:]...)
	return s.commit(ctx, next)
}

// Employees lists all employees in insertion order.
func (s *Store) Employees() []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]employee.Employee{}, s.data.Employees...)
}

// UniqueEmployeeIDs reports the employee ID policy in force.
func (s *Store) UniqueEmployeeIDs() bool {
	return s.opts.UniqueEmployeeIDs
}

// checkEmployee applies the reference and ID policy, ignoring the entry at skip.
func (s *Store) checkEmployee(e employee.Employee, skip int) error {
	if s.indexOfAccount(e.UserEmail) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownReference, e.UserEmail)
	}
	if !s.opts.UniqueEmployeeIDs {
		return nil
	}
	for i, existing := range s.data.Employees {
		if i != skip && existing.ID == e.ID {
			return fmt.Errorf("%w: employee id %s", ErrDuplicateKey, e.ID)
		}
	}
	return nil
}

// --- requests ---

// CreateRequest appends a Pending request dated today.
// PRE: in.Items is non-empty with every Qty >= 1
// POST: Request persisted with a generated ID
func (s *Store) CreateRequest(ctx context.Context, in NewRequest) (request.Request, error) {
	r := request.Request{
		ID:            s.opts.NewID(),
		Type:          in.Type,
		Items:         append([]request.Item{}, in.Items...),
		Status:        request.StatusPending,
		Date:          s.opts.Now().Format(request.DateLayout),
		EmployeeEmail: in.EmployeeEmail,
	}
	if err := r.Validate(); err != nil {
		return request.Request{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	next.Requests = append(next.Requests, r)
	if err := s.commit(ctx, next); err != nil {
		return request.Request{}, err
	}
	return r, nil
}

// UpdateRequest replaces the request at index. Status is stored as given;
// there is no transition check.
func (s *Store) UpdateRequest(ctx context.Context, index int, r request.Request) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.data.Requests) {
		return fmt.Errorf("%w: request #%d", ErrNotFound, index)
	}
	if r.ID == "" {
		r.ID = s.data.Requests[index].ID
	}
	r.Items = append([]request.Item{}, r.Items...)
	next := s.data.Clone()
	next.Requests[index] = r
	return s.commit(ctx, next)
}

// DeleteRequest removes the request at index.
func (s *Store) DeleteRequest(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.data.Requests) {
		return fmt.Errorf("%w: request #%d", ErrNotFound, index)
	}
	next := s.data.Clone()
	next.Requests = append(next.Requests[:index], next.Requests[index+1:]...)
	return s.commit(ctx, next)
}

// Requests lists all requests in insertion order.
func (s *Store) Requests() []request.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone().Requests
}

// ListRequestsFor returns the requests submitted by email.
func (s *Store) ListRequestsFor(email string) []request.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []request.Request
	for _, r := range s.data.Requests {
		if r.EmployeeEmail == email {
			r.Items = append([]request.Item{}, r.Items...)
			out = append(out, r)
		}
	}
	return out
}
