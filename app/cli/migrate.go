package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/storefront/inventory-api/app/database"
	"github.com/storefront/inventory-api/models"
)

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the categories and products tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, sqlDB, err := database.Open(cmd.Context(), cfg.Postgres, cfg.Logger.LogSQL, logger)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := models.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("Migrations applied", zap.String("db_name", cfg.Postgres.DBName))
			return nil
		},
	}
}
