package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/workoutbuddy/internal/db"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			err = db.RunMigrations(cmd.Context(), database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			return printVersion(cmd, database.DB, cfg.DBDriver)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			err = db.MigrateDown(cmd.Context(), database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			return printVersion(cmd, database.DB, cfg.DBDriver)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return printVersion(cmd, database.DB, cfg.DBDriver)
		},
	})

	return migrateCmd
}

func printVersion(cmd *cobra.Command, database *sql.DB, driver string) error {
	version, err := db.Version(cmd.Context(), database, driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
