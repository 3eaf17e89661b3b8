package sqlkit

import (
	"strconv"
	"strings"
)

// SelectBuilder accumulates the fragments of a single SELECT statement and
// renders them in a fixed order: projection, joins, predicates, ordering,
// limit, offset.
type SelectBuilder struct {
	table   string
	columns []string
	joins   []Join
	wheres  []Where
	order   *OrderBy
	limit   *int64
	offset  *int64
}

// NewSelect returns a SELECT builder for the given table.
func NewSelect(table string) *SelectBuilder {
	return &SelectBuilder{table: table}
}

// Columns adds projected columns. With no columns the statement selects "*".
func (b *SelectBuilder) Columns(columns ...string) *SelectBuilder {
	b.columns = append(b.columns, columns...)
	return b
}

// Join appends a join clause. Joins render in insertion order.
func (b *SelectBuilder) Join(kind JoinKind, table, left, right string) *SelectBuilder {
	b.joins = append(b.joins, Join{Kind: kind, Table: table, Left: left, Right: right})
	return b
}

// Where appends a predicate. Predicates are conjoined with AND in insertion
// order.
func (b *SelectBuilder) Where(column, operator string, value Value) *SelectBuilder {
	b.wheres = append(b.wheres, Where{Column: column, Operator: operator, Value: value})
	return b
}

// OrderBy sets the ORDER BY clause. Calling it again replaces the clause.
func (b *SelectBuilder) OrderBy(column, direction string) *SelectBuilder {
	b.order = &OrderBy{Column: column, Direction: direction}
	return b
}

// Limit sets the LIMIT clause.
func (b *SelectBuilder) Limit(n int64) *SelectBuilder {
	b.limit = &n
	return b
}

// Offset sets the OFFSET clause.
func (b *SelectBuilder) Offset(n int64) *SelectBuilder {
	b.offset = &n
	return b
}

// Render produces the SELECT statement text.
func (b *SelectBuilder) Render(_ Dialect) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sb.WriteByte('*')
	} else {
		sb.WriteString(strings.Join(b.columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	for _, j := range b.joins {
		sb.WriteByte(' ')
		sb.WriteString(j.Kind.keyword())
		sb.WriteByte(' ')
		sb.WriteString(j.Table)
		sb.WriteString(" ON ")
		sb.WriteString(j.Left)
		sb.WriteString(" = ")
		sb.WriteString(j.Right)
	}
	writeWhere(&sb, b.wheres)
	if b.order != nil {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.order.Column)
		sb.WriteByte(' ')
		sb.WriteString(b.order.Direction)
	}
	if b.limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.FormatInt(*b.limit, 10))
	}
	if b.offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.FormatInt(*b.offset, 10))
	}
	return sb.String()
}
