package sqlkit

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nonWordRe = regexp.MustCompile("[^a-z0-9]+")

// CreateMigration writes an empty migration stub into dir and returns its
// path. The file is named "<YYYYMMDDHHMMSS>_<snake_description>.sql" so ids
// stay lexicographically monotonic, and the body carries the "-- up" and
// "-- down" sentinels ready to fill in.
func CreateMigration(dir, description string) (string, error) {
	name := snakeCase(description)
	if name == "" {
		return "", fmt.Errorf("migration description must contain letters or digits")
	}
	filename := fmt.Sprintf("%s_%s.sql", time.Now().Format("20060102150405"), name)
	return writeMigrationStub(filepath.Join(dir, filename))
}

// writeMigrationStub writes the empty up/down template, refusing to
// truncate an existing file. Two scaffolds within one second collide on the
// timestamp id; the second call must fail instead of wiping the first.
func writeMigrationStub(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration file %s already exists", path)
	}
	content := []byte("-- up\n\n-- down\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("create migration file %s: %w", path, err)
	}
	return path, nil
}

// snakeCase lowercases the description and replaces every non-alphanumeric
// sequence with a single underscore.
func snakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWordRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
