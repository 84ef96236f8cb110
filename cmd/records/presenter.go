package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"records/internal/app"
	"records/internal/application/listutil"
	"records/internal/application/projections"
	"records/internal/application/router"
	"records/internal/domain/route"
)

// terminalPresenter prints the active view after every navigation.
type terminalPresenter struct {
	out io.Writer
	app *app.App
}

// Present renders a. Activations that happen while the app is still being
// wired are not printed.
func (p *terminalPresenter) Present(a router.Activation) {
	if p.app == nil {
		return
	}
	fmt.Fprintf(p.out, "\n== %s  (%s) ==\n", a.View, a.Fragment)
	if a.Redirects > 0 {
		fmt.Fprintf(p.out, "(redirected %d time(s))\n", a.Redirects)
	}
	if err := p.render(context.Background(), a); err != nil {
		fmt.Fprintf(p.out, "error: %v\n", err)
	}
}

func (p *terminalPresenter) render(ctx context.Context, a router.Activation) error {
	switch a.View {
	case route.ViewHome:
		if pr, ok := p.app.Session.Current(); ok {
			fmt.Fprintf(p.out, "Welcome back, %s %s.\n", pr.FirstName, pr.LastName)
		} else {
			fmt.Fprintln(p.out, "Welcome. Use 'login' or 'register' to get started.")
		}
	case route.ViewLogin:
		fmt.Fprintln(p.out, "login <email> <password>")
	case route.ViewRegister:
		fmt.Fprintln(p.out, "register <first> <last> <email> <password>")
	case route.ViewVerifyEmail:
		fmt.Fprintln(p.out, "A verification link was sent. Type 'verify' to follow it.")
	case route.ViewProfile:
		return p.renderProfile(ctx)
	case route.ViewRequestsUser:
		return p.renderMyRequests(ctx, a)
	case route.ViewEmployeesAdmin:
		return p.renderEmployees(ctx, a)
	case route.ViewDepartmentsAdmin:
		return p.renderDepartments(ctx)
	case route.ViewAccountsAdmin:
		return p.renderAccounts(ctx, a)
	}
	return nil
}

func (p *terminalPresenter) renderProfile(ctx context.Context) error {
	res, err := projections.QueryGetProfile(ctx, projections.GetProfileDeps{
		Session:      p.app.Session,
		AccountStore: p.app.Store,
		RequestStore: p.app.Store,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Name:     %s %s\n", res.FirstName, res.LastName)
	fmt.Fprintf(p.out, "Email:    %s\n", res.Email)
	fmt.Fprintf(p.out, "Role:     %s\n", res.Role)
	fmt.Fprintf(p.out, "Verified: %v\n", res.Verified)
	fmt.Fprintf(p.out, "Requests: %d (%d pending)\n", res.TotalRequests, res.PendingRequests)
	if res.Stale {
		fmt.Fprintln(p.out, "Note: this account no longer exists.")
	}
	return nil
}

func (p *terminalPresenter) renderMyRequests(ctx context.Context, a router.Activation) error {
	res, err := projections.QueryGetMyRequests(ctx, projections.GetMyRequestsQuery{Params: a.Query}, projections.GetMyRequestsDeps{
		Session:      p.app.Session,
		RequestStore: p.app.Store,
	})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tITEMS\tSTATUS")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Date, r.Type, r.Items, r.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	p.pageFooter(res.Page)
	return nil
}

func (p *terminalPresenter) renderEmployees(ctx context.Context, a router.Activation) error {
	res, err := projections.QueryGetEmployeeDirectory(ctx, projections.GetEmployeeDirectoryQuery{Params: a.Query}, projections.GetEmployeeDirectoryDeps{
		AccountStore:    p.app.Store,
		DepartmentStore: p.app.Store,
		EmployeeStore:   p.app.Store,
	})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tEMAIL\tPOSITION\tDEPARTMENT\tHIRED")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Index, r.ID, r.Name, r.Email, r.Position, r.Department, r.HireDate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	p.pageFooter(res.Page)
	return nil
}

func (p *terminalPresenter) renderDepartments(ctx context.Context) error {
	res, err := projections.QueryGetDepartmentList(ctx, projections.GetDepartmentListDeps{
		DepartmentStore: p.app.Store,
		EmployeeStore:   p.app.Store,
	})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tEMPLOYEES\tDESCRIPTION")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.Index, r.Name, r.Employees, r.Description)
	}
	return tw.Flush()
}

func (p *terminalPresenter) renderAccounts(ctx context.Context, a router.Activation) error {
	res, err := projections.QueryGetAccountList(ctx, projections.GetAccountListQuery{Params: a.Query}, projections.GetAccountListDeps{
		AccountStore: p.app.Store,
	})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tEMAIL\tROLE\tVERIFIED")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%v\n", r.Index, r.Name, r.Email, r.Role, r.Verified)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	p.pageFooter(res.Page)
	return nil
}

func (p *terminalPresenter) pageFooter(info listutil.PageInfo) {
	fmt.Fprintf(p.out, "rows %d-%d of %d, page %d/%d\n", info.StartRow(), info.EndRow(), info.Total, info.Page, info.TotalPages)
}
