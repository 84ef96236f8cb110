package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"records/internal/application/datastore"
	"records/internal/application/session"
	"records/internal/domain/request"
	"records/internal/domain/route"
)

// ErrNotAuthenticated is returned when a command needs a signed-in user.
var ErrNotAuthenticated = errors.New("you must be logged in")

// CurrentPrincipal reports who is signed in.
type CurrentPrincipal interface {
	Current() (session.Principal, bool)
}

// RequestStoreForSubmit defines the store interface needed by SubmitRequest.
type RequestStoreForSubmit interface {
	CreateRequest(ctx context.Context, in datastore.NewRequest) (request.Request, error)
}

// SubmitRequestInput carries input for the submit request orchestrator.
type SubmitRequestInput struct {
	Type  string
	Items []request.Item
}

// SubmitRequestDeps holds dependencies for SubmitRequest.
type SubmitRequestDeps struct {
	Session      CurrentPrincipal
	RequestStore RequestStoreForSubmit
}

// ExecuteSubmitRequest files a Pending request for the signed-in principal.
// PRE: Session is Authenticated
// POST: Request persisted with EmployeeEmail = principal email
func ExecuteSubmitRequest(ctx context.Context, input SubmitRequestInput, deps SubmitRequestDeps) (request.Request, string, error) {
	p, ok := deps.Session.Current()
	if !ok {
		return request.Request{}, "", ErrNotAuthenticated
	}

	items := make([]request.Item, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, request.Item{Name: strings.TrimSpace(it.Name), Qty: it.Qty})
	}

	r, err := deps.RequestStore.CreateRequest(ctx, datastore.NewRequest{
		Type:          strings.TrimSpace(input.Type),
		Items:         items,
		EmployeeEmail: p.Email,
	})
	if err != nil {
		return request.Request{}, "", err
	}

	slog.Info("request_event", "event", "submitted", "email", p.Email, "type", r.Type, "items", len(r.Items))
	return r, route.Fragment(route.RequestsUser), nil
}
