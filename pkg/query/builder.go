package query

import (
	"fmt"
	"strconv"
	"strings"
)

// condition renders one WHERE predicate. bind records an argument and
// returns its positional placeholder.
type condition func(bind func(arg any) string) string

// Builder assembles PostgreSQL SELECT statements over a ProjectionMap.
// Field names are view names; unmapped names pass through unchanged in
// predicates and are dropped from ORDER BY.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder ordered by defaultSort unless OrderByFields
// supplies another order.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// OrderByFields replaces the default sort order.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// Build returns the ordered SELECT of every matching row.
func (b *Builder) Build() (string, []any) {
	return b.selectWith(b.orderBy())
}

// BuildCount returns SELECT COUNT(*) over the matching rows.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage returns one page of the ordered SELECT. page is 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	limit := fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
	return b.selectWith(b.orderBy() + limit)
}

// BuildSingle selects the row whose idField equals id, ignoring any
// conditions already added.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) selectWith(suffix string) (string, []any) {
	where, args := b.where()
	sql := "SELECT " + b.projection.Columns() + " FROM " + b.projection.From() + where + suffix
	return sql, args
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	bind := func(arg any) string {
		args = append(args, arg)
		return "$" + strconv.Itoa(len(args))
	}

	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		clauses[i] = c(bind)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
