package sqlkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Seed is one seed script: a display name taken from the file name and the
// raw SQL body. Seeds carry no tracking state; re-running a seed re-executes
// it.
type Seed struct {
	Name string
	SQL  string
}

// LoadSeeds reads every *.sql file directly under dir, sorted by file name.
func LoadSeeds(dir string) ([]Seed, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read seeds directory: %w", err)
	}
	var seeds []Seed
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read seed %q: %w", e.Name(), err)
		}
		seeds = append(seeds, Seed{
			Name: strings.TrimSuffix(e.Name(), ".sql"),
			SQL:  string(data),
		})
	}
	sort.Slice(seeds, func(i, j int) bool {
		return seeds[i].Name < seeds[j].Name
	})
	return seeds, nil
}

// RunSeeds executes each seed inside its own transaction, in order,
// aborting on the first failure. Statements are split the same way
// migration scripts are.
func RunSeeds(ctx context.Context, conn Conn, seeds []Seed, log logrus.FieldLogger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	for _, s := range seeds {
		log.Infof("running seed %s", s.Name)
		if err := conn.Begin(ctx); err != nil {
			return err
		}
		var execErr error
		for _, stmt := range splitStatements(s.SQL) {
			if execErr = conn.Execute(ctx, stmt); execErr != nil {
				break
			}
		}
		if execErr != nil {
			_ = conn.Rollback()
			return fmt.Errorf("seed %s: %w", s.Name, execErr)
		}
		if err := conn.Commit(); err != nil {
			return err
		}
	}
	return nil
}
