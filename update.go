package sqlkit

import "strings"

// UpdateBuilder accumulates SET pairs and predicates for a single UPDATE
// statement. An update with zero SET pairs renders syntactically invalid
// SQL; that is surfaced by the database, not caught here.
type UpdateBuilder struct {
	table  string
	sets   []assignment
	wheres []Where
}

// NewUpdate returns an UPDATE builder for the given table.
func NewUpdate(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set appends one SET pair.
func (b *UpdateBuilder) Set(column string, value Value) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetMap appends every SET pair from the map, in undefined order.
func (b *UpdateBuilder) SetMap(values map[string]Value) *UpdateBuilder {
	for column, value := range values {
		b.sets = append(b.sets, assignment{column: column, value: value})
	}
	return b
}

// Where appends a predicate.
func (b *UpdateBuilder) Where(column, operator string, value Value) *UpdateBuilder {
	b.wheres = append(b.wheres, Where{Column: column, Operator: operator, Value: value})
	return b
}

// Render produces the UPDATE statement text.
func (b *UpdateBuilder) Render(_ Dialect) string {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.column)
		sb.WriteString(" = ")
		sb.WriteString(s.value.SQL())
	}
	writeWhere(&sb, b.wheres)
	return sb.String()
}
