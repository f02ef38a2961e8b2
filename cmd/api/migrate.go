package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clientapi/internal/config"
	"clientapi/internal/logger"
)

// migrateCommand constructs the 'migrate' subcommand. Opening the store applies
// the postgres schema or the mongodb indexes, whichever driver is configured.
func migrateCommand(cfg *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Prepares the client store (postgres schema or mongodb indexes)",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			_, closeStore := openStore(ctx, cfg)
			defer closeStore()

			logger.Info(ctx, "client store is up to date", zap.String("driver", cfg.StoreDriver))
		},
	}
}
