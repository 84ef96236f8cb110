package listutil

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultPerPage is the row count used when the query names none.
const DefaultPerPage = 10

// PerPageOptions are the accepted per_page values.
var PerPageOptions = []int{5, 10, 25, 50}

// PageParams selects one page of a table.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// SortParams orders a table by one column.
type SortParams struct {
	Sort string // column key, empty keeps insertion order
	Desc bool
}

// FilterParams narrows a table.
type FilterParams struct {
	Search  string            // case-insensitive substring
	Filters map[string]string // exact match on named columns
}

// ListParams combines everything a table view reads from a fragment query.
type ListParams struct {
	PageParams
	SortParams
	FilterParams
}

// PageInfo describes the page that was cut from a table.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// ParseListParams reads page, per_page, sort, dir, q and the named filters
// from a fragment query. Unknown or malformed values fall back to defaults.
// PRE: q may be nil
// POST: Sort is empty or one of sortable; Filters only holds filterKeys
func ParseListParams(q url.Values, sortable, filterKeys []string) ListParams {
	return ListParams{
		PageParams:   ParsePageParams(q),
		SortParams:   ParseSortParams(q, sortable),
		FilterParams: ParseFilterParams(q, filterKeys),
	}
}

// ParsePageParams reads page and per_page.
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseSortParams reads sort and dir; dir=desc reverses the order.
func ParseSortParams(q url.Values, sortable []string) SortParams {
	col := q.Get("sort")
	if !slices.Contains(sortable, col) {
		col = ""
	}
	return SortParams{Sort: col, Desc: col != "" && q.Get("dir") == "desc"}
}

// ParseFilterParams reads q and the listed filter keys.
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// MatchesSearch reports whether search is empty or occurs in any field,
// ignoring case.
func MatchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// SortBy orders items in place by the column named in s. keys maps each
// sortable column to the string it compares on. Ties keep insertion order.
func SortBy[T any](items []T, s SortParams, keys map[string]func(T) string) {
	key, ok := keys[s.Sort]
	if !ok {
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		c := strings.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
		if s.Desc {
			return -c
		}
		return c
	})
}

// Paginate cuts the requested page from items. A page past the end is
// clamped to the last page.
// POST: len(result) <= p.PerPage
func Paginate[T any](items []T, p PageParams) ([]T, PageInfo) {
	info := NewPageInfo(p.Page, p.PerPage, len(items))
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	return items[start:end], info
}

// NewPageInfo computes page metadata, clamping page into [1, TotalPages].
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max(1, (total+perPage-1)/perPage)
	page = min(max(page, 1), totalPages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset is the index of the first row on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow is the 1-indexed first row shown, or 0 for an empty table.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow is the 1-indexed last row shown.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// HasNext reports whether a later page exists.
func (p PageInfo) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p PageInfo) HasPrev() bool {
	return p.Page > 1
}

// PageNumbers returns up to five page numbers around the current page.
func (p PageInfo) PageNumbers() []int {
	const window = 5
	start := max(1, p.Page-window/2)
	end := min(p.TotalPages, start+window-1)
	start = max(1, end-window+1)
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
