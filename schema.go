package sqlkit

import "strings"

// columnDef is one column of a CREATE TABLE statement.
type columnDef struct {
	name        string
	typ         string
	constraints []string
	increments  bool
	json        bool
}

// CreateTable builds a CREATE TABLE statement. Unlike the four statement
// builders it renders dialect-sensitive keywords: the auto-increment form
// and the JSON column type differ per database.
type CreateTable struct {
	name        string
	ifNotExists bool
	cols        []columnDef
	primary     []string
}

// NewCreateTable returns a CREATE TABLE builder for the given table.
func NewCreateTable(name string) *CreateTable {
	return &CreateTable{name: name}
}

// IfNotExists makes the statement a no-op when the table already exists.
func (t *CreateTable) IfNotExists() *CreateTable {
	t.ifNotExists = true
	return t
}

// Column appends a column with a literal type and optional constraint
// keywords ("NOT NULL", "UNIQUE", ...), rendered in the given order.
func (t *CreateTable) Column(name, typ string, constraints ...string) *CreateTable {
	t.cols = append(t.cols, columnDef{name: name, typ: typ, constraints: constraints})
	return t
}

// Increments appends an auto-incrementing integer primary key column using
// the dialect's keyword.
func (t *CreateTable) Increments(name string) *CreateTable {
	t.cols = append(t.cols, columnDef{name: name, increments: true})
	return t
}

// JSONColumn appends a column using the dialect's JSON type.
func (t *CreateTable) JSONColumn(name string, constraints ...string) *CreateTable {
	t.cols = append(t.cols, columnDef{name: name, json: true, constraints: constraints})
	return t
}

// PrimaryKey sets a table-level primary key. Ignored when an Increments
// column is present, which is its own primary key.
func (t *CreateTable) PrimaryKey(columns ...string) *CreateTable {
	t.primary = columns
	return t
}

// Render produces the CREATE TABLE statement text for the dialect.
func (t *CreateTable) Render(d Dialect) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if t.ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(t.name)
	sb.WriteString(" (")
	hasIncrements := false
	for i, c := range t.cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.name)
		sb.WriteByte(' ')
		switch {
		case c.increments:
			hasIncrements = true
			if d == SQLite {
				// SQLite ties AUTOINCREMENT to the INTEGER PRIMARY KEY alias.
				sb.WriteString("INTEGER PRIMARY KEY AUTOINCREMENT")
			} else {
				sb.WriteString(d.intType())
				sb.WriteByte(' ')
				sb.WriteString(d.AutoIncrement())
				sb.WriteString(" PRIMARY KEY")
			}
		case c.json:
			sb.WriteString(d.JSONType())
		default:
			sb.WriteString(c.typ)
		}
		for _, constraint := range c.constraints {
			sb.WriteByte(' ')
			sb.WriteString(constraint)
		}
	}
	if len(t.primary) > 0 && !hasIncrements {
		sb.WriteString(", PRIMARY KEY (")
		sb.WriteString(strings.Join(t.primary, ", "))
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}
