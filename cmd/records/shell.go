package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"records/internal/app"
	"records/internal/application/orchestrators"
	"records/internal/domain/department"
	"records/internal/domain/employee"
	"records/internal/domain/request"
)

var errUsage = errors.New("usage")

const helpText = `commands:
  go <fragment>                         navigate, e.g. go #/accounts-admin?sort=email
  login <email> <password>              sign in
  logout                                sign out
  register <first> <last> <email> <pw>  create an account
  verify                                verify the pending email
  request <type> <item:qty>...          submit a request, e.g. request Equipment Laptop:2
  whoami                                show the signed-in user
  keys                                  list storage keys
  stats                                 SQL statement counts and timings
  approve <index> | reject <index>      set a request status (admin)
  employee add <id> <email> <position> <department> [hire-date]   (admin)
  employee rm <index>                   (admin)
  dept add <name> [description...]      (admin)
  dept rm <index>                       (admin)
  account rm <email>                    (admin)
  account reset <email> <password>      (admin)
  help | quit`

// shell turns input lines into calls on the app.
type shell struct {
	app *app.App
	out io.Writer
}

func newShell(a *app.App, out io.Writer) *shell {
	return &shell{app: a, out: out}
}

// run reads commands until EOF or quit.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := s.exec(ctx, scanner.Text())
		if err != nil {
			s.report(err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line.
func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, helpText)
		return false, nil
	case "go":
		fragment := "#/"
		if len(args) > 0 {
			fragment = args[0]
		}
		_, err := s.app.Navigate(fragment)
		return false, err
	case "login":
		if len(args) != 2 {
			return false, fmt.Errorf("%w: login <email> <password>", errUsage)
		}
		_, err := s.app.Login(ctx, args[0], args[1])
		return false, err
	case "logout":
		return false, s.app.Logout(ctx)
	case "register":
		if len(args) != 4 {
			return false, fmt.Errorf("%w: register <first> <last> <email> <password>", errUsage)
		}
		_, err := s.app.Register(ctx, orchestrators.RegisterInput{FirstName: args[0], LastName: args[1], Email: args[2], Password: args[3]})
		return false, err
	case "verify":
		_, err := s.app.VerifyEmail(ctx)
		if err == nil {
			fmt.Fprintln(s.out, "Email verified. Please log in.")
		}
		return false, err
	case "request":
		return false, s.submitRequest(ctx, args)
	case "whoami":
		if p, ok := s.app.Session.Current(); ok {
			fmt.Fprintf(s.out, "%s (%s)\n", p.Email, p.Role)
		} else {
			fmt.Fprintln(s.out, "not signed in")
		}
		return false, nil
	case "keys":
		return false, s.keys(ctx)
	case "stats":
		return false, s.stats()
	case "approve", "reject":
		return false, s.setRequestStatus(ctx, cmd, args)
	case "employee":
		return false, s.employee(ctx, args)
	case "dept":
		return false, s.department(ctx, args)
	case "account":
		return false, s.account(ctx, args)
	default:
		return false, fmt.Errorf("%w: unknown command %q, try help", errUsage, cmd)
	}
}

func (s *shell) submitRequest(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: request <type> <item:qty>...", errUsage)
	}
	items, err := parseItems(args[1:])
	if err != nil {
		return err
	}
	_, _, err = s.app.SubmitRequest(ctx, orchestrators.SubmitRequestInput{Type: args[0], Items: items})
	return err
}

// parseItems reads "name:qty" pairs. A missing qty counts as 1.
func parseItems(args []string) ([]request.Item, error) {
	items := make([]request.Item, 0, len(args))
	for _, arg := range args {
		name, qtyText, hasQty := strings.Cut(arg, ":")
		qty := 1
		if hasQty {
			n, err := strconv.Atoi(qtyText)
			if err != nil {
				return nil, fmt.Errorf("%w: quantity %q is not a number", errUsage, qtyText)
			}
			qty = n
		}
		items = append(items, request.Item{Name: name, Qty: qty})
	}
	return items, nil
}

func (s *shell) setRequestStatus(ctx context.Context, cmd string, args []string) error {
	if !s.app.Session.IsAdmin() {
		return orchestrators.ErrNotAuthorized
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: %s <index>", errUsage, cmd)
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: index must be a number", errUsage)
	}
	all := s.app.Store.Requests()
	if idx < 0 || idx >= len(all) {
		return fmt.Errorf("no request #%d", idx)
	}
	r := all[idx]
	r.Status = request.StatusApproved
	if cmd == "reject" {
		r.Status = request.StatusRejected
	}
	return s.refresh(s.app.Store.UpdateRequest(ctx, idx, r))
}

func (s *shell) employee(ctx context.Context, args []string) error {
	if !s.app.Session.IsAdmin() {
		return orchestrators.ErrNotAuthorized
	}
	switch {
	case len(args) >= 5 && args[0] == "add":
		e := employee.Employee{ID: args[1], UserEmail: args[2], Position: args[3], Department: args[4]}
		if len(args) > 5 {
			e.HireDate = args[5]
		}
		return s.refresh(s.app.Store.CreateEmployee(ctx, e))
	case len(args) == 2 && args[0] == "rm":
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: index must be a number", errUsage)
		}
		return s.refresh(s.app.Store.DeleteEmployee(ctx, idx))
	}
	return fmt.Errorf("%w: employee add <id> <email> <position> <department> [hire-date] | employee rm <index>", errUsage)
}

func (s *shell) department(ctx context.Context, args []string) error {
	if !s.app.Session.IsAdmin() {
		return orchestrators.ErrNotAuthorized
	}
	switch {
	case len(args) >= 2 && args[0] == "add":
		d := department.Department{Name: args[1], Description: strings.Join(args[2:], " ")}
		return s.refresh(s.app.Store.CreateDepartment(ctx, d))
	case len(args) == 2 && args[0] == "rm":
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: index must be a number", errUsage)
		}
		return s.refresh(s.app.Store.DeleteDepartment(ctx, idx))
	}
	return fmt.Errorf("%w: dept add <name> [description...] | dept rm <index>", errUsage)
}

func (s *shell) account(ctx context.Context, args []string) error {
	switch {
	case len(args) == 2 && args[0] == "rm":
		return s.refresh(s.app.DeleteAccount(ctx, args[1]))
	case len(args) == 3 && args[0] == "reset":
		if err := s.app.ResetPassword(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Password for %s has been reset.\n", args[1])
		return nil
	}
	return fmt.Errorf("%w: account rm <email> | account reset <email> <password>", errUsage)
}

// keyLister is implemented by backends that can enumerate their keys.
type keyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

func (s *shell) keys(ctx context.Context) error {
	lister, ok := s.app.KV.(keyLister)
	if !ok {
		return fmt.Errorf("%w: this storage driver cannot list keys", errUsage)
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(s.out, k)
	}
	return nil
}

func (s *shell) stats() error {
	if s.app.Stats == nil {
		return fmt.Errorf("%w: this storage driver does not record statements", errUsage)
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OP\tCOUNT\tTOTAL\tMEAN")
	for _, o := range s.app.Stats.Snapshot() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", o.Op, o.Count, o.Total, o.Mean())
	}
	return w.Flush()
}

// refresh re-renders the current view after a successful mutation.
func (s *shell) refresh(err error) error {
	if err != nil {
		return err
	}
	_, err = s.app.Router.Reevaluate()
	return err
}

// report prints err for the user; unexpected failures are also logged.
func (s *shell) report(err error) {
	if !app.IsUserError(err) && !errors.Is(err, errUsage) {
		slog.Error("command_failed", "error", err)
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
}
