// Package main provides the CLI entrypoint for the client management API.
// It loads configuration, initializes logging and wires the serve, migrate and token subcommands.
package main

import (
	"context"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clientapi/internal/config"
	"clientapi/internal/logger"
)

// @title Client Management API
// @version 1.0
// @description Creates and manages tenant clients: configuration documents, per-client S3 buckets and agent prompts.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := logger.Setup(cfg.Environment); err != nil {
		log.Fatalf("could not set up logger: %v", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	rootCmd := newRootCommand(cfg)

	err = rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

// newRootCommand builds the CLI. Running it without a subcommand starts the server.
func newRootCommand(cfg *config.AppConfig) *cobra.Command {
	serve := serveCommand(cfg)

	rootCmd := &cobra.Command{
		Use:   "clientapi",
		Short: "Client management API",
		Run:   serve.Run,
	}
	rootCmd.AddCommand(
		serve,
		migrateCommand(cfg),
		tokenCommand(cfg),
	)
	return rootCmd
}
