package sqlkit

import "strings"

// DeleteBuilder accumulates predicates for a single DELETE statement.
type DeleteBuilder struct {
	table  string
	wheres []Where
}

// NewDelete returns a DELETE builder for the given table.
func NewDelete(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

// Where appends a predicate.
func (b *DeleteBuilder) Where(column, operator string, value Value) *DeleteBuilder {
	b.wheres = append(b.wheres, Where{Column: column, Operator: operator, Value: value})
	return b
}

// Render produces the DELETE statement text.
func (b *DeleteBuilder) Render(_ Dialect) string {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.table)
	writeWhere(&sb, b.wheres)
	return sb.String()
}
