package sqlkit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Section sentinels inside migration files. A line equal to one of these
// after trimming surrounding whitespace opens that section; everything
// before the first sentinel is discarded.
const (
	upMarker   = "-- up"
	downMarker = "-- down"
)

// Migration is one loaded migration definition: a sortable id, a display
// name and the paired forward/backward scripts.
//
// Ids sort lexicographically, so id schemes must be lexicographically
// monotonic (e.g. YYYYMMDDHHMMSS timestamps).
type Migration struct {
	ID      string
	Name    string
	UpSQL   string
	DownSQL string
}

// ParseMigration builds a Migration from a file name and its content.
// The file name must follow "<id>_<words_joined_by_underscore>.sql"; the id
// is everything before the first underscore and the display name is the
// remainder with underscores replaced by spaces.
func ParseMigration(filename, content string) (Migration, error) {
	base := filepath.Base(filename)
	if filepath.Ext(base) != ".sql" {
		return Migration{}, fmt.Errorf("migration %q: only .sql files are recognized", base)
	}
	stem := strings.TrimSuffix(base, ".sql")
	id, rest, ok := strings.Cut(stem, "_")
	if !ok || id == "" {
		return Migration{}, fmt.Errorf("migration %q: name must look like <id>_<description>.sql", base)
	}
	m := Migration{
		ID:   id,
		Name: strings.ReplaceAll(rest, "_", " "),
	}
	m.UpSQL, m.DownSQL = splitSections(content)
	return m, nil
}

// splitSections partitions a migration body on the "-- up" / "-- down"
// sentinel lines. Lines are preserved verbatim, including blanks and
// comments.
func splitSections(content string) (up, down string) {
	var upLines, downLines []string
	section := 0 // 0 = preamble, 1 = up, 2 = down
	for _, line := range strings.Split(content, "\n") {
		switch strings.TrimSpace(line) {
		case upMarker:
			section = 1
			continue
		case downMarker:
			section = 2
			continue
		}
		switch section {
		case 1:
			upLines = append(upLines, line)
		case 2:
			downLines = append(downLines, line)
		}
	}
	return strings.Join(upLines, "\n"), strings.Join(downLines, "\n")
}

// LoadMigrations reads every *.sql file directly under dir, parses each
// into a Migration and returns the list sorted by id ascending. Any read or
// parse failure fails the whole load.
func LoadMigrations(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}
	var migrations []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", path, err)
		}
		m, err := ParseMigration(e.Name(), string(data))
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})
	return migrations, nil
}

// splitStatements cuts a script on semicolons and drops blank entries. The
// split is not aware of quoting: a semicolon inside a string literal will
// mis-split the script. Existing migration files are written around this.
func splitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
