package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSortColumns = map[string]bool{
	"name":       true,
	"created_at": true,
}

func TestOrderClauseDefaultsToFallback(t *testing.T) {
	q := NewListQuery()
	assert.Equal(t, "created_at DESC", q.OrderClause(testSortColumns, "created_at DESC"))
}

func TestOrderClauseAllowedColumn(t *testing.T) {
	q := NewListQuery()
	q.SortBy = "name"
	assert.Equal(t, "name ASC", q.OrderClause(testSortColumns, "created_at DESC"))

	q.SortDir = "desc"
	assert.Equal(t, "name DESC", q.OrderClause(testSortColumns, "created_at DESC"))

	q.SortDir = "DESC"
	assert.Equal(t, "name DESC", q.OrderClause(testSortColumns, "created_at DESC"))
}

func TestOrderClauseRejectsUnknownColumns(t *testing.T) {
	// Raw client input never reaches the ORDER BY; anything outside the
	// allowed set falls back to the default ordering.
	for _, sortBy := range []string{
		"phone",
		"name; DROP TABLE customers",
		"(SELECT 1)",
		"created_at,name",
	} {
		q := NewListQuery()
		q.SortBy = sortBy
		assert.Equal(t, "created_at DESC", q.OrderClause(testSortColumns, "created_at DESC"), "sort %q", sortBy)
	}
}

func TestOffsetFirstPage(t *testing.T) {
	q := NewListQuery()
	assert.Equal(t, 0, q.Offset())

	q.Page = 3
	assert.Equal(t, 20, q.Offset())

	q.Page = 0
	assert.Equal(t, 0, q.Offset())
}
