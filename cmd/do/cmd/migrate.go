package cmd

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/config"
	"github.com/clementroume/holbertonschool-files-manager/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(db.RunMigrations)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(db.MigrateDown)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(printStatus)
		},
	})

	return cmd
}

func printStatus(database *sql.DB, driver string) error {
	statuses, err := db.MigrationStatus(database, driver)
	if err != nil {
		return err
	}

	for _, st := range statuses {
		applied := "-"
		if !st.AppliedAt.IsZero() {
			applied = st.AppliedAt.Format(time.RFC3339)
		}
		fmt.Printf("%-8s %-25s %s\n", st.State, applied, filepath.Base(st.Source.Path))
	}
	return nil
}

func withDB(fn func(*sql.DB, string) error) error {
	cfg := config.Load()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	return fn(database.DB, cfg.DBDriver)
}
