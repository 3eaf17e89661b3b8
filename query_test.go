package sqlkit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records statements and serves canned rows. Used by terminal
// operation tests; the real adapter is covered in conn_test.go.
type fakeConn struct {
	executed  []string
	queried   []string
	rows      *Rows
	execErr   error
	queryErr  error
	begins    int
	commits   int
	rollbacks int
}

func (f *fakeConn) Execute(_ context.Context, query string) error {
	f.executed = append(f.executed, query)
	return f.execErr
}

func (f *fakeConn) Query(_ context.Context, query string) (*Rows, error) {
	f.queried = append(f.queried, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.rows != nil {
		return f.rows, nil
	}
	return &Rows{}, nil
}

func (f *fakeConn) Begin(context.Context) error { f.begins++; return nil }
func (f *fakeConn) Commit() error               { f.commits++; return nil }
func (f *fakeConn) Rollback() error             { f.rollbacks++; return nil }

func rowsOf(columns []string, values ...[]any) *Rows {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	r := &Rows{Columns: columns}
	for _, v := range values {
		r.rows = append(r.rows, Row{columns: index, values: v})
	}
	return r
}

// A predicate recorded before the kind-revealing call must survive into
// the materialized builder.
func TestQueryDeferredReplay(t *testing.T) {
	stmt, err := Table("users", Postgres).
		Where("id", "=", Int(1)).
		Set("name", Text("x")).
		Render()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET name = 'x' WHERE id = 1", stmt)
}

func TestQueryDeferredReplayDelete(t *testing.T) {
	stmt, err := Table("users", Postgres).
		Where("id", "=", Int(1)).
		Where("active", "=", Bool(false)).
		Delete().
		Render()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE id = 1 AND active = FALSE", stmt)
}

// Predicates added after materialization go straight into the builder.
func TestQueryWhereAfterReveal(t *testing.T) {
	stmt, err := Table("users", Postgres).
		Set("name", Text("x")).
		Where("id", "=", Int(1)).
		Render()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET name = 'x' WHERE id = 1", stmt)
}

func TestQueryDefaultsToSelect(t *testing.T) {
	q := Table("users", Postgres)
	assert.Equal(t, StatementSelect, q.Kind())

	stmt, err := q.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users", stmt)
}

func TestQuerySelectChain(t *testing.T) {
	stmt, err := Table("users", Postgres).
		Columns("id", "name").
		Where("age", ">=", Int(18)).
		OrderBy("name", "ASC").
		Limit(5).
		Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM users WHERE age >= 18 ORDER BY name ASC LIMIT 5", stmt)
}

func TestQueryInsertChain(t *testing.T) {
	q := Table("users", Postgres).Value("name", Text("x"))
	assert.Equal(t, StatementInsert, q.Kind())

	stmt, err := q.Render()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (name) VALUES ('x')", stmt)
}

// The last kind-revealing call wins.
func TestQueryKindSwitch(t *testing.T) {
	q := Table("users", Postgres).Set("name", Text("x"))
	assert.Equal(t, StatementUpdate, q.Kind())

	q.Delete()
	assert.Equal(t, StatementDelete, q.Kind())

	stmt, err := q.Render()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users", stmt)
}

func TestQueryGet(t *testing.T) {
	conn := &fakeConn{}
	rows, err := Table("users", Postgres).Columns("id").Get(context.Background(), conn)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	require.Len(t, conn.queried, 1)
	assert.Equal(t, "SELECT id FROM users", conn.queried[0])
}

func TestQueryGetWrongKind(t *testing.T) {
	conn := &fakeConn{}
	_, err := Table("users", Postgres).Delete().Get(context.Background(), conn)
	require.Error(t, err)
	assert.Empty(t, conn.queried)
}

func TestQueryExec(t *testing.T) {
	conn := &fakeConn{}
	err := Table("users", Postgres).
		Where("id", "=", Int(1)).
		Delete().
		Exec(context.Background(), conn)
	require.NoError(t, err)
	require.Len(t, conn.executed, 1)
	assert.Equal(t, "DELETE FROM users WHERE id = 1", conn.executed[0])
}

func TestQueryExecOnSelect(t *testing.T) {
	conn := &fakeConn{}
	err := Table("users", Postgres).Columns("id").Exec(context.Background(), conn)
	require.Error(t, err)
	assert.Empty(t, conn.executed)
}

func TestQueryFirst(t *testing.T) {
	conn := &fakeConn{rows: rowsOf([]string{"id", "name"}, []any{int64(1), "ada"})}
	row, err := Table("users", Postgres).First(context.Background(), conn)
	require.NoError(t, err)

	name, ok := row.Get("name")
	require.True(t, ok)
	assert.Equal(t, "ada", name)
	assert.Equal(t, int64(1), row.Value(0))

	require.Len(t, conn.queried, 1)
	assert.Equal(t, "SELECT * FROM users LIMIT 1", conn.queried[0])
}

func TestQueryFirstNoRows(t *testing.T) {
	conn := &fakeConn{}
	_, err := Table("users", Postgres).First(context.Background(), conn)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestQueryLatchedError(t *testing.T) {
	q := Table("users", Postgres)
	boom := errors.New("boom")
	q.err = boom

	// Mutators no-op and keep returning the query.
	q.Where("id", "=", Int(1)).Set("name", Text("x")).Delete()
	assert.Nil(t, q.upd)
	assert.Nil(t, q.del)

	_, err := q.Render()
	assert.ErrorIs(t, err, boom)
	err = q.Exec(context.Background(), &fakeConn{})
	assert.ErrorIs(t, err, boom)
	_, err = q.Get(context.Background(), &fakeConn{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, q.Err(), boom)
}
