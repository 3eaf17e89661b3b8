package sqlkit

import (
	"context"
	"fmt"
)

// StatementKind is the statement shape a Query has committed to.
type StatementKind uint8

// Statement kinds.
const (
	StatementSelect StatementKind = iota
	StatementInsert
	StatementUpdate
	StatementDelete
)

func (k StatementKind) String() string {
	switch k {
	case StatementInsert:
		return "insert"
	case StatementUpdate:
		return "update"
	case StatementDelete:
		return "delete"
	default:
		return "select"
	}
}

// Query is a chainable builder that starts from a table name and defers
// committing to a statement kind until a kind-revealing call occurs:
// Columns, Join, OrderBy, Limit and Offset reveal a select; Value and
// Values an insert; Set and SetMap an update; Delete a delete.
//
// Where may be called before the kind is known. Pending predicates are
// replayed, in call order, into the inner builder the moment it is
// materialized, so chains like
//
//	q.Where("id", "=", sqlkit.Int(1)).Set("name", sqlkit.Text("x"))
//
// produce an UPDATE that keeps the WHERE clause.
//
// The first error encountered is latched; once latched, every mutator is a
// no-op and the next terminal call (Render, Get, First, Exec) returns the
// latched error. A Query is not safe for concurrent use.
type Query struct {
	table   string
	dialect Dialect
	kind    StatementKind
	pending []Where
	sel     *SelectBuilder
	ins     *InsertBuilder
	upd     *UpdateBuilder
	del     *DeleteBuilder
	err     error
}

// Table starts a chainable query against the given table.
func Table(name string, dialect Dialect) *Query {
	return &Query{table: name, dialect: dialect}
}

// Kind reports the statement kind the query currently resolves to.
func (q *Query) Kind() StatementKind {
	return q.kind
}

// Err returns the latched error, if any.
func (q *Query) Err() error {
	return q.err
}

// Where appends a predicate. It is always recorded in the pending list and,
// when the current kind's builder is already materialized, applied to it
// directly as well; that dual bookkeeping lets predicates recorded before a
// kind-revealing call catch up later.
func (q *Query) Where(column, operator string, value Value) *Query {
	if q.err != nil {
		return q
	}
	w := Where{Column: column, Operator: operator, Value: value}
	q.pending = append(q.pending, w)
	switch q.kind {
	case StatementSelect:
		if q.sel != nil {
			q.sel.Where(w.Column, w.Operator, w.Value)
		}
	case StatementUpdate:
		if q.upd != nil {
			q.upd.Where(w.Column, w.Operator, w.Value)
		}
	case StatementDelete:
		if q.del != nil {
			q.del.Where(w.Column, w.Operator, w.Value)
		}
	}
	return q
}

// Columns reveals a select and adds projected columns.
func (q *Query) Columns(columns ...string) *Query {
	if q.err != nil {
		return q
	}
	q.selectBuilder().Columns(columns...)
	return q
}

// Join reveals a select and appends a join clause.
func (q *Query) Join(kind JoinKind, table, left, right string) *Query {
	if q.err != nil {
		return q
	}
	q.selectBuilder().Join(kind, table, left, right)
	return q
}

// OrderBy reveals a select and sets its ORDER BY clause.
func (q *Query) OrderBy(column, direction string) *Query {
	if q.err != nil {
		return q
	}
	q.selectBuilder().OrderBy(column, direction)
	return q
}

// Limit reveals a select and sets its LIMIT clause.
func (q *Query) Limit(n int64) *Query {
	if q.err != nil {
		return q
	}
	q.selectBuilder().Limit(n)
	return q
}

// Offset reveals a select and sets its OFFSET clause.
func (q *Query) Offset(n int64) *Query {
	if q.err != nil {
		return q
	}
	q.selectBuilder().Offset(n)
	return q
}

// Value reveals an insert and appends one column/value pair.
func (q *Query) Value(column string, value Value) *Query {
	if q.err != nil {
		return q
	}
	q.insertBuilder().Value(column, value)
	return q
}

// Values reveals an insert and appends every pair from the map, in
// undefined order.
func (q *Query) Values(values map[string]Value) *Query {
	if q.err != nil {
		return q
	}
	q.insertBuilder().Values(values)
	return q
}

// Set reveals an update and appends one SET pair.
func (q *Query) Set(column string, value Value) *Query {
	if q.err != nil {
		return q
	}
	q.updateBuilder().Set(column, value)
	return q
}

// SetMap reveals an update and appends every SET pair from the map, in
// undefined order.
func (q *Query) SetMap(values map[string]Value) *Query {
	if q.err != nil {
		return q
	}
	q.updateBuilder().SetMap(values)
	return q
}

// Delete reveals a delete.
func (q *Query) Delete() *Query {
	if q.err != nil {
		return q
	}
	q.deleteBuilder()
	return q
}

// Render produces the statement text for the current kind, or the latched
// error.
func (q *Query) Render() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	switch q.kind {
	case StatementInsert:
		return q.ins.Render(q.dialect), nil
	case StatementUpdate:
		return q.upd.Render(q.dialect), nil
	case StatementDelete:
		return q.del.Render(q.dialect), nil
	default:
		return q.selectBuilder().Render(q.dialect), nil
	}
}

// Get renders the select and runs it through the connection. Calling Get on
// a query that resolved to another kind is a usage error.
func (q *Query) Get(ctx context.Context, conn Conn) (*Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.kind != StatementSelect {
		return nil, fmt.Errorf("sqlkit: Get on a %s query", q.kind)
	}
	return conn.Query(ctx, q.selectBuilder().Render(q.dialect))
}

// First limits the select to one row and returns it, or ErrNoRows.
func (q *Query) First(ctx context.Context, conn Conn) (Row, error) {
	rows, err := q.Limit(1).Get(ctx, conn)
	if err != nil {
		return Row{}, err
	}
	if rows.Len() == 0 {
		return Row{}, ErrNoRows
	}
	return rows.Row(0), nil
}

// Exec renders the insert, update or delete and runs it through the
// connection. Calling Exec on a select is a usage error.
func (q *Query) Exec(ctx context.Context, conn Conn) error {
	if q.err != nil {
		return q.err
	}
	if q.kind == StatementSelect {
		return fmt.Errorf("sqlkit: Exec on a select query, use Get")
	}
	stmt, err := q.Render()
	if err != nil {
		return err
	}
	return conn.Execute(ctx, stmt)
}

// selectBuilder materializes the select builder, replaying pending
// predicates on first construction.
func (q *Query) selectBuilder() *SelectBuilder {
	q.kind = StatementSelect
	if q.sel == nil {
		q.sel = NewSelect(q.table)
		for _, w := range q.pending {
			q.sel.Where(w.Column, w.Operator, w.Value)
		}
		q.pending = nil
	}
	return q.sel
}

// insertBuilder materializes the insert builder. Inserts carry no
// predicates, so pending entries are dropped rather than replayed.
func (q *Query) insertBuilder() *InsertBuilder {
	q.kind = StatementInsert
	if q.ins == nil {
		q.ins = NewInsert(q.table)
		q.pending = nil
	}
	return q.ins
}

// updateBuilder materializes the update builder, replaying pending
// predicates on first construction.
func (q *Query) updateBuilder() *UpdateBuilder {
	q.kind = StatementUpdate
	if q.upd == nil {
		q.upd = NewUpdate(q.table)
		for _, w := range q.pending {
			q.upd.Where(w.Column, w.Operator, w.Value)
		}
		q.pending = nil
	}
	return q.upd
}

// deleteBuilder materializes the delete builder, replaying pending
// predicates on first construction.
func (q *Query) deleteBuilder() *DeleteBuilder {
	q.kind = StatementDelete
	if q.del == nil {
		q.del = NewDelete(q.table)
		for _, w := range q.pending {
			q.del.Where(w.Column, w.Operator, w.Value)
		}
		q.pending = nil
	}
	return q.del
}
