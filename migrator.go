package sqlkit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTrackingTable is the tracking table name used when Config leaves
// it empty.
const DefaultTrackingTable = "migrations"

// Config holds migrator settings.
type Config struct {
	// Dialect of the target database.
	Dialect Dialect

	// Table is the tracking table name. Defaults to DefaultTrackingTable.
	Table string

	// Schema scopes the tracking-table existence probe on Postgres and
	// MySQL. When empty the connection's current schema (current_schema()
	// on Postgres, DATABASE() on MySQL) is used. Ignored for SQLite.
	Schema string

	// Logger receives per-migration progress. Defaults to the logrus
	// standard logger.
	Logger logrus.FieldLogger
}

// Record is one persisted tracking-table row.
type Record struct {
	ID        string
	Name      string
	AppliedAt int64
	Batch     int64
}

// MigrationStatus pairs a loaded definition with its tracking state.
type MigrationStatus struct {
	Migration Migration
	Applied   bool
	AppliedAt int64
	Batch     int64
}

// Migrator applies and rolls back migrations against a single connection.
// Every forward or backward script runs inside one transaction together
// with its tracking-table bookkeeping; a failed script leaves the migration
// pending and aborts the remaining queue. Migrations applied together share
// a batch number, and rollback always targets the highest batch.
//
// The migrator executes author-supplied SQL verbatim and is not safe for
// concurrent use against one connection.
type Migrator struct {
	conn Conn
	cfg  Config
	log  logrus.FieldLogger
}

// NewMigrator returns a migrator over the given connection, merging config
// defaults.
func NewMigrator(cfg Config, conn Conn) *Migrator {
	if cfg.Table == "" {
		cfg.Table = DefaultTrackingTable
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Migrator{conn: conn, cfg: cfg, log: log}
}

// EnsureTable creates the tracking table unless it already exists. It is
// idempotent and never fails just because the table is present.
func (m *Migrator) EnsureTable(ctx context.Context) error {
	ok, err := m.hasTable(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	create := fmt.Sprintf(
		"CREATE TABLE %s (id VARCHAR(255) PRIMARY KEY, name VARCHAR(255) NOT NULL, applied_at %s NOT NULL, batch INTEGER NOT NULL)",
		m.cfg.Table, m.cfg.Dialect.intType(),
	)
	if err := m.conn.Execute(ctx, create); err != nil {
		return fmt.Errorf("create tracking table: %w", err)
	}
	return nil
}

// Migrate applies every pending migration in ascending id order, all under
// one new batch number. It returns the migrations newly applied by this
// call. On failure the current migration's transaction is rolled back, the
// rest of the queue is abandoned, and migrations committed earlier in the
// call stay applied.
func (m *Migrator) Migrate(ctx context.Context, migrations []Migration) ([]Migration, error) {
	if err := m.EnsureTable(ctx); err != nil {
		return nil, err
	}
	records, err := m.records(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(records))
	for _, r := range records {
		applied[r.ID] = true
	}
	batch := maxBatch(records) + 1

	queue := sortedByID(migrations)
	var done []Migration
	for _, mig := range queue {
		if applied[mig.ID] {
			continue
		}
		m.log.Infof("applying migration %s (%s)", mig.ID, mig.Name)
		if err := m.runScript(ctx, mig.UpSQL, m.insertRecordSQL(mig, batch)); err != nil {
			return done, fmt.Errorf("migration %s: %w", mig.ID, err)
		}
		done = append(done, mig)
	}
	return done, nil
}

// Rollback reverts the highest batch, most recently applied migration
// first. Applied ids with no loaded definition are skipped with a warning.
// It returns the migrations rolled back by this call; with no batches left
// it is a no-op.
func (m *Migrator) Rollback(ctx context.Context, migrations []Migration) ([]Migration, error) {
	if err := m.EnsureTable(ctx); err != nil {
		return nil, err
	}
	records, err := m.records(ctx)
	if err != nil {
		return nil, err
	}
	batch := maxBatch(records)
	if batch == 0 {
		return nil, nil
	}
	var members []Record
	for _, r := range records {
		if r.Batch == batch {
			members = append(members, r)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].ID > members[j].ID
	})

	byID := make(map[string]Migration, len(migrations))
	for _, mig := range migrations {
		byID[mig.ID] = mig
	}
	var done []Migration
	for _, r := range members {
		mig, ok := byID[r.ID]
		if !ok {
			m.log.Warnf("no definition loaded for applied migration %s, skipping", r.ID)
			continue
		}
		m.log.Infof("rolling back migration %s (%s)", mig.ID, mig.Name)
		if err := m.runScript(ctx, mig.DownSQL, m.deleteRecordSQL(mig.ID)); err != nil {
			return done, fmt.Errorf("rollback %s: %w", mig.ID, err)
		}
		done = append(done, mig)
	}
	return done, nil
}

// Reset rolls back batch after batch until the tracking table is empty. It
// stops with an error when a pass removes nothing, which happens when every
// id left in the highest batch has no loaded definition.
func (m *Migrator) Reset(ctx context.Context, migrations []Migration) error {
	if err := m.EnsureTable(ctx); err != nil {
		return err
	}
	for {
		records, err := m.records(ctx)
		if err != nil {
			return err
		}
		batch := maxBatch(records)
		if batch == 0 {
			return nil
		}
		done, err := m.Rollback(ctx, migrations)
		if err != nil {
			return err
		}
		if len(done) == 0 {
			return fmt.Errorf("reset stalled: no loaded definition matches batch %d", batch)
		}
	}
}

// Status reports applied/pending state per definition, in ascending id
// order. It is read-only: a missing tracking table means everything is
// pending.
func (m *Migrator) Status(ctx context.Context, migrations []Migration) ([]MigrationStatus, error) {
	byID := make(map[string]Record)
	ok, err := m.hasTable(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		records, err := m.records(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			byID[r.ID] = r
		}
	}
	var statuses []MigrationStatus
	for _, mig := range sortedByID(migrations) {
		s := MigrationStatus{Migration: mig}
		if r, applied := byID[mig.ID]; applied {
			s.Applied = true
			s.AppliedAt = r.AppliedAt
			s.Batch = r.Batch
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// runScript executes every statement of a script plus the bookkeeping
// statement inside one transaction, rolling back on failure so the database
// stays transactionally clean.
func (m *Migrator) runScript(ctx context.Context, script, bookkeeping string) error {
	if err := m.conn.Begin(ctx); err != nil {
		return err
	}
	execErr := func() error {
		for _, stmt := range splitStatements(script) {
			if err := m.conn.Execute(ctx, stmt); err != nil {
				return err
			}
		}
		return m.conn.Execute(ctx, bookkeeping)
	}()
	if execErr != nil {
		return errors.Join(execErr, m.conn.Rollback())
	}
	return m.conn.Commit()
}

// hasTable probes for the tracking table through the dialect's catalog.
// The information-schema probe must be schema-scoped: on MySQL the view
// spans every database on the server and on Postgres every schema in the
// database, so an unscoped match could belong to someone else's table.
func (m *Migrator) hasTable(ctx context.Context) (bool, error) {
	var probe string
	if m.cfg.Dialect == SQLite {
		probe = fmt.Sprintf("SELECT name FROM sqlite_master WHERE type = 'table' AND name = %s", Text(m.cfg.Table).SQL())
	} else {
		probe = fmt.Sprintf(
			"SELECT table_name FROM information_schema.tables WHERE table_name = %s AND table_schema = %s",
			Text(m.cfg.Table).SQL(), m.schemaScope(),
		)
	}
	rows, err := m.conn.Query(ctx, probe)
	if err != nil {
		return false, fmt.Errorf("probe tracking table: %w", err)
	}
	return rows.Len() > 0, nil
}

// schemaScope returns the SQL expression the probe compares table_schema
// against: the configured schema as a literal, or the dialect's
// current-schema function.
func (m *Migrator) schemaScope() string {
	if m.cfg.Schema != "" {
		return Text(m.cfg.Schema).SQL()
	}
	if m.cfg.Dialect == MySQL {
		return "DATABASE()"
	}
	return "current_schema()"
}

// records loads the whole tracking table.
func (m *Migrator) records(ctx context.Context) ([]Record, error) {
	rows, err := m.conn.Query(ctx, fmt.Sprintf("SELECT id, name, applied_at, batch FROM %s ORDER BY batch ASC, id ASC", m.cfg.Table))
	if err != nil {
		return nil, fmt.Errorf("read tracking table: %w", err)
	}
	records := make([]Record, 0, rows.Len())
	for _, row := range rows.All() {
		records = append(records, Record{
			ID:        asString(row.Value(0)),
			Name:      asString(row.Value(1)),
			AppliedAt: asInt64(row.Value(2)),
			Batch:     asInt64(row.Value(3)),
		})
	}
	return records, nil
}

func (m *Migrator) insertRecordSQL(mig Migration, batch int64) string {
	return fmt.Sprintf(
		"INSERT INTO %s (id, name, applied_at, batch) VALUES (%s, %s, %d, %d)",
		m.cfg.Table, Text(mig.ID).SQL(), Text(mig.Name).SQL(), time.Now().Unix(), batch,
	)
}

func (m *Migrator) deleteRecordSQL(id string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = %s", m.cfg.Table, Text(id).SQL())
}

func maxBatch(records []Record) int64 {
	var max int64
	for _, r := range records {
		if r.Batch > max {
			max = r.Batch
		}
	}
	return max
}

func sortedByID(migrations []Migration) []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// asString coerces a scanned database value; drivers hand back strings or
// byte slices depending on the dialect.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

// asInt64 coerces a scanned database value to an integer.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		parsed, _ := strconv.ParseInt(string(n), 10, 64)
		return parsed
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	default:
		return 0
	}
}
