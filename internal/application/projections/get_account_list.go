package projections

import (
	"context"
	"net/url"

	"records/internal/application/listutil"
)

// Sortable columns and filters of the accounts table.
var (
	AccountSortColumns = []string{"name", "email", "role"}
	AccountFilterKeys  = []string{"role"}
)

// GetAccountListQuery carries the fragment query of the view.
type GetAccountListQuery struct {
	Params url.Values
}

// GetAccountListDeps holds dependencies for GetAccountList.
type GetAccountListDeps struct {
	AccountStore AccountReader
}

// AccountRow is one account as shown to admins. The password is never exposed.
type AccountRow struct {
	Index    int
	Name     string
	Email    string
	Role     string
	Verified bool
}

// GetAccountListResult carries one page of rows.
type GetAccountListResult struct {
	Rows []AccountRow
	Page listutil.PageInfo
	Sort listutil.SortParams
}

var accountSortKeys = map[string]func(AccountRow) string{
	"name":  func(r AccountRow) string { return r.Name },
	"email": func(r AccountRow) string { return r.Email },
	"role":  func(r AccountRow) string { return r.Role },
}

// QueryGetAccountList builds the admin accounts table.
func QueryGetAccountList(_ context.Context, query GetAccountListQuery, deps GetAccountListDeps) (GetAccountListResult, error) {
	lp := listutil.ParseListParams(query.Params, AccountSortColumns, AccountFilterKeys)

	var rows []AccountRow
	for i, a := range deps.AccountStore.Accounts() {
		if role, ok := lp.Filters["role"]; ok && a.Role != role {
			continue
		}
		if !listutil.MatchesSearch(lp.Search, a.FirstName, a.LastName, a.Email) {
			continue
		}
		rows = append(rows, AccountRow{
			Index:    i,
			Name:     a.FullName(),
			Email:    a.Email,
			Role:     a.Role,
			Verified: a.Verified,
		})
	}

	listutil.SortBy(rows, lp.SortParams, accountSortKeys)
	page, info := listutil.Paginate(rows, lp.PageParams)
	return GetAccountListResult{Rows: page, Page: info, Sort: lp.SortParams}, nil
}
