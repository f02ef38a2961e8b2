package main

import (
	"context"

	"go.uber.org/zap"

	"clientapi/internal/config"
	"clientapi/internal/database"
	"clientapi/internal/database/migration"
	"clientapi/internal/logger"
	"clientapi/internal/repository"
	mongorepo "clientapi/internal/repository/mongo"
	"clientapi/internal/repository/postgres"
)

// openStore connects the configured client store and returns it along with a
// cleanup function that releases the underlying connection.
func openStore(ctx context.Context, cfg *config.AppConfig) (repository.ClientRepository, func()) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logger.Fatal(ctx, "could not connect to postgres", zap.Error(err))
		}
		if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
			logger.Fatal(ctx, "could not migrate postgres", zap.Error(err))
		}
		return postgres.NewClientPostgres(db), func() {
			logger.Info(ctx, "closing postgres client...")
			if err := db.Close(); err != nil {
				logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
			}
		}

	case config.StoreMongo:
		client, coll, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			logger.Fatal(ctx, "could not connect to mongodb", zap.Error(err))
		}
		repo := mongorepo.NewClientMongo(coll)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Fatal(ctx, "could not create mongodb indexes", zap.Error(err))
		}
		return repo, func() {
			logger.Info(ctx, "closing mongodb client...")
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn(ctx, "could not close mongodb connection", zap.Error(err))
			}
		}

	default:
		logger.Fatal(ctx, "unsupported store driver", zap.String("driver", cfg.StoreDriver))
		return nil, func() {}
	}
}
