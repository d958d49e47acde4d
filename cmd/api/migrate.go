package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pet-rescue/internal/adapters/storage/postgres"
	"pet-rescue/internal/adapters/storage/sqlite"
	"pet-rescue/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables in the configured SQL store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		switch cfg.Storage.Driver {
		case config.StoragePostgres:
			db, err := postgres.Open(cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
		case config.StorageSQLite:
			db, err := sqlite.Open(cfg.Storage.SQLitePath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := sqlite.Migrate(cmd.Context(), db); err != nil {
				return err
			}
		default:
			return fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "schema applied (%s)\n", cfg.Storage.Driver)
		return nil
	},
}
