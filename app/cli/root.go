package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/storefront/inventory-api/app/logging"
	"github.com/storefront/inventory-api/config"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "inventory",
		Short:        "Inventory API for categories and products",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default .env)")
	cmd.AddCommand(serveCmd(&envFile))
	cmd.AddCommand(migrateCmd(&envFile))
	return cmd
}

// bootstrap loads the configuration and builds the logger shared by every command.
func bootstrap(envFile string) (*config.Config, *zap.Logger, error) {
	var cfg *config.Config
	if envFile != "" {
		cfg = config.Load(envFile)
	} else {
		cfg = config.Load()
	}

	logger, err := logging.New(cfg.Server, cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
