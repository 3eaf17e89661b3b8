// SPDX-License-Identifier: MIT

// Package sqlkit is a small database-access toolkit: typed SQL statement
// builders plus a batch-oriented schema migration engine, sharing one
// minimal connection interface.
//
// # Statement builders
//
// Four builders accumulate typed fragments and render to SQL text on
// demand:
//
//	sqlkit.NewSelect("users").Columns("id", "name").Where("age", ">=", sqlkit.Int(18)).Render(sqlkit.Postgres)
//	// SELECT id, name FROM users WHERE age >= 18
//
// Values are interpolated as escaped literals, not bound parameters; see
// the Value type for the escaping rules. Predicate operators are trusted
// verbatim and must never come from user input.
//
// The chainable Query builder starts from a table name and commits to a
// statement kind lazily, replaying predicates recorded before the kind was
// known:
//
//	q := sqlkit.Table("users", sqlkit.Postgres)
//	q.Where("id", "=", sqlkit.Int(1)).Set("name", sqlkit.Text("x"))
//	stmt, _ := q.Render()
//	// UPDATE users SET name = 'x' WHERE id = 1
//
// # Migrations
//
// A migration is one .sql file named "<id>_<description>.sql" whose body is
// split by the "-- up" and "-- down" sentinel lines into a forward and a
// backward script. Ids sort lexicographically and decide apply order.
//
//	migs, _ := sqlkit.LoadMigrations("./migrations")
//	db, _ := sqlkit.Open(sqlkit.Postgres, os.Getenv("DATABASE_URL"))
//	m := sqlkit.NewMigrator(sqlkit.Config{Dialect: sqlkit.Postgres}, db)
//	m.Migrate(ctx, migs)
//
// Migrations applied together share a batch; Rollback reverts the highest
// batch and Reset repeats Rollback until none remain. Each script runs in
// one transaction together with its tracking-table bookkeeping, so a failed
// script leaves the migration pending.
//
// # Connections
//
// The Conn interface carries the whole database capability the toolkit
// consumes (Execute, Query, Begin, Commit, Rollback). Open builds one over
// database/sql for the postgres, mysql and sqlite dialects; the concrete
// driver is linked by the importing program via a blank import, and Open
// reports ErrDriverUnavailable when it is missing.
//
// # CLI helpers
//
// Command line front ends live under cmd/migrate (migrate, rollback,
// reset, status, new) and cmd/seeder (run).
package sqlkit
