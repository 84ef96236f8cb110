package projections

import (
	"context"

	"records/internal/domain/request"
)

// GetProfileDeps holds dependencies for GetProfile.
type GetProfileDeps struct {
	Session      PrincipalReader
	AccountStore AccountReader
	RequestStore RequestReader
}

// ProfileResult is the profile panel content.
type ProfileResult struct {
	FirstName string
	LastName  string
	Email     string
	Role      string
	Verified  bool

	// Stale is set when the signed-in account no longer exists in the store.
	Stale bool

	PendingRequests int
	TotalRequests   int
}

// QueryGetProfile reads the signed-in user's profile.
// PRE: Session is Authenticated
// POST: Names and role come from the session snapshot; Verified from the store
func QueryGetProfile(_ context.Context, deps GetProfileDeps) (ProfileResult, error) {
	p, ok := deps.Session.Current()
	if !ok {
		return ProfileResult{}, ErrNotAuthenticated
	}

	res := ProfileResult{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role,
	}
	acct, found := deps.AccountStore.FindAccountByEmail(p.Email)
	res.Stale = !found
	res.Verified = found && acct.Verified

	for _, r := range deps.RequestStore.ListRequestsFor(p.Email) {
		res.TotalRequests++
		if r.Status == request.StatusPending {
			res.PendingRequests++
		}
	}
	return res, nil
}
