package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"focustracker/internal/db"
)

type rootOptions struct {
	dbPath string
}

// NewRootCmd creates the focusctl command tree. Every subcommand works on the
// database file directly, so the server does not need to be running.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "focusctl",
		Short:         "Manage focus categories and read focus reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", defaultDBPath(), "path to the focustracker database")

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newCategoriesCmd(opts),
		newReportCmd(opts),
		newSettingsCmd(),
	)
	return rootCmd
}

func defaultDBPath() string {
	if path := os.Getenv("DB_PATH"); path != "" {
		return path
	}
	return "./data/focustracker.db"
}

// openDB opens and migrates the database so every command sees the current schema.
func (o *rootOptions) openDB() (*sql.DB, error) {
	database, err := db.OpenSQLite(o.dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return database, nil
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := opts.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			applied, err := db.AppliedMigrations(database)
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
}
