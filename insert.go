package sqlkit

import "strings"

// InsertBuilder accumulates column/value pairs for a single INSERT
// statement. Pairs render in insertion order, which fixes the alignment
// between the column list and the VALUES list.
type InsertBuilder struct {
	table string
	pairs []assignment
}

// NewInsert returns an INSERT builder for the given table.
func NewInsert(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Value appends one column/value pair.
func (b *InsertBuilder) Value(column string, value Value) *InsertBuilder {
	b.pairs = append(b.pairs, assignment{column: column, value: value})
	return b
}

// Values appends every pair from the map. Go maps are unordered, so the
// resulting column order is undefined; callers needing determinism must use
// Value.
func (b *InsertBuilder) Values(values map[string]Value) *InsertBuilder {
	for column, value := range values {
		b.pairs = append(b.pairs, assignment{column: column, value: value})
	}
	return b
}

// Render produces the INSERT statement text.
func (b *InsertBuilder) Render(_ Dialect) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.table)
	sb.WriteString(" (")
	for i, p := range b.pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.column)
	}
	sb.WriteString(") VALUES (")
	for i, p := range b.pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.value.SQL())
	}
	sb.WriteByte(')')
	return sb.String()
}
