// Command seeder runs *.sql seed files against a database.
package main

import (
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sqlkit/sqlkit"
)

func main() {
	var (
		flagDriver string
		flagDSN    string
		flagDir    string
	)

	root := &cobra.Command{}
	root.Use = "seeder"
	root.Short = "Database seed runner"
	root.SilenceUsage = true
	root.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	root.PersistentFlags().StringVar(&flagDriver, "driver", string(sqlkit.Postgres), "Database driver (postgres, mysql or sqlite)")
	root.PersistentFlags().StringVar(&flagDSN, "dsn", "", "Connection string (defaults to DATABASE_URL)")
	root.PersistentFlags().StringVar(&flagDir, "dir", "seeds", "Seeds directory")

	run := &cobra.Command{}
	run.Use = "run"
	run.Short = "Run every seed file in order"
	run.RunE = func(cmd *cobra.Command, _ []string) error {
		seeds, err := sqlkit.LoadSeeds(flagDir)
		if err != nil {
			return err
		}
		dsn := flagDSN
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		if dsn == "" {
			return fmt.Errorf("no connection string: pass --dsn or set DATABASE_URL")
		}
		db, err := sqlkit.Open(sqlkit.Dialect(flagDriver), dsn)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := sqlkit.RunSeeds(cmd.Context(), db, seeds, logrus.StandardLogger()); err != nil {
			return err
		}
		logrus.Infof("ran %d seed(s)", len(seeds))

		return nil
	}

	root.AddCommand(run)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
