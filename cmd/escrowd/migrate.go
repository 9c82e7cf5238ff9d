package main

import (
	"fmt"

	"escrow-wallet-ledger/config"
	pgStorage "escrow-wallet-ledger/internal/adapter/storage/postgres"
	"escrow-wallet-ledger/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate requires store.driver %q, got %q", config.DriverPostgres, cfg.Store.Driver)
			}

			pool, err := pgStorage.NewPool(cmd.Context(), cfg.Database, log)
			if err != nil {
				return fmt.Errorf("connecting to PostgreSQL: %w", err)
			}
			defer pool.Close()

			ran, err := pgStorage.Migrate(cmd.Context(), pool, migrations.FS, log)
			if err != nil {
				return err
			}
			log.Info().Strs("applied", ran).Msg("Migrations complete")
			return nil
		},
	}
}
