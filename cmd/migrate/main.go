// Command migrate applies, rolls back and inspects sqlkit migrations.
package main

import (
	"fmt"
	"os"
	"strconv"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sqlkit/sqlkit"
)

type cmdGlobal struct {
	flagDriver string
	flagDSN    string
	flagDir    string
	flagTable  string
	flagDebug  bool
}

// connect opens the database and builds a migrator from the global flags.
func (g *cmdGlobal) connect() (*sqlkit.DB, *sqlkit.Migrator, error) {
	dsn := g.flagDSN
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, nil, fmt.Errorf("no connection string: pass --dsn or set DATABASE_URL")
	}
	dialect := sqlkit.Dialect(g.flagDriver)
	db, err := sqlkit.Open(dialect, dsn)
	if err != nil {
		return nil, nil, err
	}
	m := sqlkit.NewMigrator(sqlkit.Config{
		Dialect: dialect,
		Table:   g.flagTable,
		Logger:  logrus.StandardLogger(),
	}, db)
	return db, m, nil
}

func (g *cmdGlobal) load() ([]sqlkit.Migration, error) {
	return sqlkit.LoadMigrations(g.flagDir)
}

type cmdMigrate struct {
	global *cmdGlobal
}

func (c *cmdMigrate) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "migrate"
	cmd.Short = "Apply every pending migration as one batch"
	cmd.RunE = c.run

	return cmd
}

func (c *cmdMigrate) run(cmd *cobra.Command, _ []string) error {
	migs, err := c.global.load()
	if err != nil {
		return err
	}
	db, m, err := c.global.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := m.Migrate(cmd.Context(), migs)
	if err != nil {
		return err
	}
	logrus.Infof("applied %d migration(s)", len(applied))

	return nil
}

type cmdRollback struct {
	global *cmdGlobal
}

func (c *cmdRollback) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "rollback"
	cmd.Short = "Revert the most recent batch"
	cmd.RunE = c.run

	return cmd
}

func (c *cmdRollback) run(cmd *cobra.Command, _ []string) error {
	migs, err := c.global.load()
	if err != nil {
		return err
	}
	db, m, err := c.global.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	rolledBack, err := m.Rollback(cmd.Context(), migs)
	if err != nil {
		return err
	}
	logrus.Infof("rolled back %d migration(s)", len(rolledBack))

	return nil
}

type cmdReset struct {
	global *cmdGlobal
}

func (c *cmdReset) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "reset"
	cmd.Short = "Revert every batch until the database is empty"
	cmd.RunE = c.run

	return cmd
}

func (c *cmdReset) run(cmd *cobra.Command, _ []string) error {
	migs, err := c.global.load()
	if err != nil {
		return err
	}
	db, m, err := c.global.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	return m.Reset(cmd.Context(), migs)
}

type cmdStatus struct {
	global *cmdGlobal
}

func (c *cmdStatus) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "status"
	cmd.Short = "Show applied/pending state per migration"
	cmd.RunE = c.run

	return cmd
}

func (c *cmdStatus) run(cmd *cobra.Command, _ []string) error {
	migs, err := c.global.load()
	if err != nil {
		return err
	}
	db, m, err := c.global.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	statuses, err := m.Status(cmd.Context(), migs)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "NAME", "STATE", "BATCH"})
	for _, s := range statuses {
		state := "pending"
		batch := ""
		if s.Applied {
			state = "applied"
			batch = strconv.FormatInt(s.Batch, 10)
		}
		table.Append([]string{s.Migration.ID, s.Migration.Name, state, batch})
	}
	table.Render()

	return nil
}

type cmdNew struct {
	global *cmdGlobal
}

func (c *cmdNew) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "new <description>"
	cmd.Short = "Scaffold an empty migration file"
	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = c.run

	return cmd
}

func (c *cmdNew) run(_ *cobra.Command, args []string) error {
	path, err := sqlkit.CreateMigration(c.global.flagDir, args[0])
	if err != nil {
		return err
	}
	fmt.Println(path)

	return nil
}

func main() {
	global := &cmdGlobal{}

	root := &cobra.Command{}
	root.Use = "migrate"
	root.Short = "Schema migration runner"
	root.SilenceUsage = true
	root.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}
	root.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if global.flagDebug {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}

	root.PersistentFlags().StringVar(&global.flagDriver, "driver", string(sqlkit.Postgres), "Database driver (postgres, mysql or sqlite)")
	root.PersistentFlags().StringVar(&global.flagDSN, "dsn", "", "Connection string (defaults to DATABASE_URL)")
	root.PersistentFlags().StringVar(&global.flagDir, "dir", "migrations", "Migrations directory")
	root.PersistentFlags().StringVar(&global.flagTable, "table", sqlkit.DefaultTrackingTable, "Tracking table name")
	root.PersistentFlags().BoolVar(&global.flagDebug, "debug", false, "Enable debug logging")

	root.AddCommand(
		(&cmdMigrate{global: global}).command(),
		(&cmdRollback{global: global}).command(),
		(&cmdReset{global: global}).command(),
		(&cmdStatus{global: global}).command(),
		(&cmdNew{global: global}).command(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
