package sqlkit

import (
	"context"
	"database/sql"
	"fmt"
)

// Conn is the minimal database capability the toolkit consumes. The
// migration engine and the chainable builder's terminal operations take a
// Conn; neither retains it beyond the call, and neither is safe for
// concurrent use against a single Conn.
type Conn interface {
	Execute(ctx context.Context, query string) error
	Query(ctx context.Context, query string) (*Rows, error)
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}

// Rows is a fully materialized result set: an ordered column list and an
// ordered row list. Materializing up front means there is nothing to close.
type Rows struct {
	Columns []string
	rows    []Row
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	return len(r.rows)
}

// Row returns the i-th row.
func (r *Rows) Row(i int) Row {
	return r.rows[i]
}

// All returns every row in order.
func (r *Rows) All() []Row {
	return r.rows
}

// Row is one result row, readable by position or by column name.
type Row struct {
	columns map[string]int
	values  []any
}

// Value returns the value at position i.
func (r Row) Value(i int) any {
	return r.values[i]
}

// Get returns the value of the named column and whether the column exists.
func (r Row) Get(name string) (any, bool) {
	i, ok := r.columns[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// DB implements Conn over a database/sql handle. Statements run through the
// open transaction when one exists. DB carries at most one transaction at a
// time and is not safe for concurrent use.
type DB struct {
	db      *sql.DB
	tx      *sql.Tx
	dialect Dialect
}

// Open connects to a database by dialect. It fails with
// ErrDriverUnavailable when the dialect's database/sql driver was not
// linked into the program (drivers register via blank imports).
func Open(dialect Dialect, dsn string) (*DB, error) {
	name, err := dialect.DriverName()
	if err != nil {
		return nil, err
	}
	if !dialect.Available() {
		return nil, fmt.Errorf("%w: %s (import the %q driver)", ErrDriverUnavailable, dialect, name)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{db: db, dialect: dialect}, nil
}

// WrapDB adopts an existing database/sql handle.
func WrapDB(db *sql.DB, dialect Dialect) *DB {
	return &DB{db: db, dialect: dialect}
}

// Dialect returns the dialect the connection was opened with.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Execute runs a statement that returns no rows.
func (d *DB) Execute(ctx context.Context, query string) error {
	var err error
	if d.tx != nil {
		_, err = d.tx.ExecContext(ctx, query)
	} else {
		_, err = d.db.ExecContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("sqlkit: execute: %w", err)
	}
	return nil
}

// Query runs a statement and materializes the full result set.
func (d *DB) Query(ctx context.Context, query string) (*Rows, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if d.tx != nil {
		rows, err = d.tx.QueryContext(ctx, query)
	} else {
		rows, err = d.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlkit: query: %w", err)
	}
	defer rows.Close()
	return materialize(rows)
}

// Begin opens a transaction. Nested transactions are rejected.
func (d *DB) Begin(ctx context.Context) error {
	if d.tx != nil {
		return ErrTransactionOpen
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlkit: begin: %w", err)
	}
	d.tx = tx
	return nil
}

// Commit commits the open transaction.
func (d *DB) Commit() error {
	if d.tx == nil {
		return ErrNoTransaction
	}
	err := d.tx.Commit()
	d.tx = nil
	if err != nil {
		return fmt.Errorf("sqlkit: commit: %w", err)
	}
	return nil
}

// Rollback aborts the open transaction.
func (d *DB) Rollback() error {
	if d.tx == nil {
		return ErrNoTransaction
	}
	err := d.tx.Rollback()
	d.tx = nil
	if err != nil {
		return fmt.Errorf("sqlkit: rollback: %w", err)
	}
	return nil
}

// materialize drains a sql.Rows into a Rows value.
func materialize(rows *sql.Rows) (*Rows, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	out := &Rows{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out.rows = append(out.rows, Row{columns: index, values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Conn = (*DB)(nil)
