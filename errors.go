package sqlkit

import "errors"

var (
	// ErrNoRows is returned by Query.First when the statement matched
	// nothing.
	ErrNoRows = errors.New("sqlkit: no rows in result set")

	// ErrDriverUnavailable is returned by Open when the database/sql driver
	// backing the requested dialect was not linked into the program.
	ErrDriverUnavailable = errors.New("sqlkit: driver not available")

	// ErrNoTransaction is returned by Commit and Rollback when no
	// transaction is open.
	ErrNoTransaction = errors.New("sqlkit: no open transaction")

	// ErrTransactionOpen is returned by Begin when a transaction is already
	// open on the connection.
	ErrTransactionOpen = errors.New("sqlkit: transaction already open")
)
