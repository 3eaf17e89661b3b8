package sqlkit

import (
	"database/sql"
	"fmt"
	"slices"
)

// Dialect names a supported database flavor. The four statement builders
// render identically across dialects; dialect differences are confined to
// DDL keywords (auto-increment, JSON column type, tracking-table integers).
type Dialect string

// Supported dialects.
const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// driverNames maps a dialect to the database/sql driver name it rides on.
// The driver itself is linked by the importing program (typically with a
// blank import); Open checks availability at construction time.
var driverNames = map[Dialect]string{
	Postgres: "pgx",
	MySQL:    "mysql",
	SQLite:   "sqlite3",
}

// DriverName returns the database/sql driver name for the dialect.
func (d Dialect) DriverName() (string, error) {
	name, ok := driverNames[d]
	if !ok {
		return "", fmt.Errorf("unknown dialect %q", string(d))
	}
	return name, nil
}

// Available reports whether the dialect's database/sql driver is linked
// into the running program.
func (d Dialect) Available() bool {
	name, ok := driverNames[d]
	return ok && slices.Contains(sql.Drivers(), name)
}

// AutoIncrement returns the column suffix that makes an integer primary key
// auto-incrementing.
func (d Dialect) AutoIncrement() string {
	switch d {
	case MySQL:
		return "AUTO_INCREMENT"
	case SQLite:
		return "AUTOINCREMENT"
	default:
		return "GENERATED ALWAYS AS IDENTITY"
	}
}

// JSONType returns the column type used for JSON documents.
func (d Dialect) JSONType() string {
	switch d {
	case Postgres:
		return "JSONB"
	case MySQL:
		return "JSON"
	default:
		return "TEXT"
	}
}

// intType returns the keyword used for plain integer columns in generated
// DDL such as the migration tracking table.
func (d Dialect) intType() string {
	if d == SQLite {
		return "INTEGER"
	}
	return "BIGINT"
}
