package projections

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"records/internal/application/listutil"
	"records/internal/domain/request"
)

// Sortable columns and filters of the personal requests table.
var (
	MyRequestsSortColumns = []string{"date", "type", "status"}
	MyRequestsFilterKeys  = []string{"status"}
)

// GetMyRequestsQuery carries the fragment query of the view.
type GetMyRequestsQuery struct {
	Params url.Values
}

// GetMyRequestsDeps holds dependencies for GetMyRequests.
type GetMyRequestsDeps struct {
	Session      PrincipalReader
	RequestStore RequestReader
}

// RequestRow is one line of the personal requests table.
type RequestRow struct {
	ID       string
	Date     string
	Type     string
	Items    string
	TotalQty int
	Status   string
}

// GetMyRequestsResult carries one page of rows.
type GetMyRequestsResult struct {
	Rows []RequestRow
	Page listutil.PageInfo
	Sort listutil.SortParams
}

var requestSortKeys = map[string]func(request.Request) string{
	"date":   func(r request.Request) string { return r.Date },
	"type":   func(r request.Request) string { return r.Type },
	"status": func(r request.Request) string { return r.Status },
}

// QueryGetMyRequests lists the signed-in user's requests.
// PRE: Session is Authenticated
// POST: Only requests whose EmployeeEmail equals the principal email are returned
func QueryGetMyRequests(_ context.Context, query GetMyRequestsQuery, deps GetMyRequestsDeps) (GetMyRequestsResult, error) {
	p, ok := deps.Session.Current()
	if !ok {
		return GetMyRequestsResult{}, ErrNotAuthenticated
	}
	lp := listutil.ParseListParams(query.Params, MyRequestsSortColumns, MyRequestsFilterKeys)

	var matched []request.Request
	for _, r := range deps.RequestStore.ListRequestsFor(p.Email) {
		if status, ok := lp.Filters["status"]; ok && r.Status != status {
			continue
		}
		if !listutil.MatchesSearch(lp.Search, r.Type, itemSummary(r.Items)) {
			continue
		}
		matched = append(matched, r)
	}
	listutil.SortBy(matched, lp.SortParams, requestSortKeys)
	page, info := listutil.Paginate(matched, lp.PageParams)

	rows := make([]RequestRow, 0, len(page))
	for _, r := range page {
		rows = append(rows, RequestRow{
			ID:       r.ID,
			Date:     r.Date,
			Type:     r.Type,
			Items:    itemSummary(r.Items),
			TotalQty: r.TotalQty(),
			Status:   r.Status,
		})
	}
	return GetMyRequestsResult{Rows: rows, Page: info, Sort: lp.SortParams}, nil
}

// itemSummary renders items as "Laptop x2, Mouse x1".
func itemSummary(items []request.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Qty))
	}
	return strings.Join(parts, ", ")
}
