package sqlkit

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return WrapDB(db, SQLite), mock
}

func TestOpenUnknownDialect(t *testing.T) {
	_, err := Open(Dialect("oracle"), "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}

// The test binary links no real driver, so every dialect is unavailable.
func TestOpenDriverUnavailable(t *testing.T) {
	_, err := Open(MySQL, "user@/db")
	assert.ErrorIs(t, err, ErrDriverUnavailable)
}

func TestDBQueryMaterializes(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectQuery("SELECT id, name FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "ada").
			AddRow(int64(2), "grace"))

	rows, err := db.Query(context.Background(), "SELECT id, name FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, rows.Columns)
	require.Equal(t, 2, rows.Len())

	assert.Equal(t, int64(1), rows.Row(0).Value(0))
	name, ok := rows.Row(1).Get("name")
	require.True(t, ok)
	assert.Equal(t, "grace", name)

	_, ok = rows.Row(0).Get("missing")
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBTransactionRouting(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectCommit()

	ctx := context.Background()
	require.NoError(t, db.Begin(ctx))
	require.NoError(t, db.Execute(ctx, "UPDATE users SET active = TRUE"))
	_, err := db.Query(ctx, "SELECT count(*) FROM users")
	require.NoError(t, err)
	require.NoError(t, db.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRollback(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	ctx := context.Background()
	require.NoError(t, db.Begin(ctx))
	require.NoError(t, db.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBNestedBegin(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()

	ctx := context.Background()
	require.NoError(t, db.Begin(ctx))
	assert.ErrorIs(t, db.Begin(ctx), ErrTransactionOpen)
}

func TestDBCommitWithoutTransaction(t *testing.T) {
	db, _ := newTestDB(t)
	assert.ErrorIs(t, db.Commit(), ErrNoTransaction)
	assert.ErrorIs(t, db.Rollback(), ErrNoTransaction)
}

// After Commit or Rollback the connection leaves transaction mode, so the
// next statement runs directly on the database handle.
func TestDBTransactionCleared(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectExec("DELETE FROM logs").WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, db.Begin(ctx))
	require.NoError(t, db.Commit())
	require.NoError(t, db.Execute(ctx, "DELETE FROM logs"))
	require.NoError(t, mock.ExpectationsWereMet())
}
