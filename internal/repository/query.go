package repository

import "strings"

// DefaultPageSize is the page size every list view uses.
const DefaultPageSize = 10

// ListQuery is the serializable query state for a list call: pagination,
// free-text search, column filters and sort. Views build one of these and
// pass it down; repositories never read request state directly.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: DefaultPageSize,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page.
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// OrderClause builds the ORDER BY fragment from the query. SortBy comes from
// the client, so it must match a column in the allowed set; anything else,
// including an empty sort, uses the fallback ordering.
func (q *ListQuery) OrderClause(allowed map[string]bool, fallback string) string {
	if q.SortBy == "" || !allowed[q.SortBy] {
		return fallback
	}
	if strings.EqualFold(q.SortDir, "desc") {
		return q.SortBy + " DESC"
	}
	return q.SortBy + " ASC"
}
