package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"clientapi/internal/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_client_configs",
		SQL: `CREATE TABLE IF NOT EXISTS client_configs (
  client_id  TEXT        PRIMARY KEY,
  owner_id   TEXT        NOT NULL DEFAULT '',
  document   JSONB       NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_client_configs_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_client_configs_owner_id ON client_configs (owner_id);`,
	},
	{
		Name: "create_index_client_configs_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_client_configs_created_at ON client_configs (created_at);`,
	},
}

// EnsureMigrated checks if the 'client_configs' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()
	ctx = logger.WithFields(ctx, zap.String("component", "database"), zap.String("db_host", dbHost))

	logger.Info(ctx, "db migration check")

	var exists bool
	query := "SELECT to_regclass('public.client_configs') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		logger.Error(ctx, "db migration failed",
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.Info(ctx, "schema already exists, skipping migration",
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Error(ctx, "db migration failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.Debug(ctx, "db migration step",
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	logger.Info(ctx, "db migration success",
		zap.Int("steps", len(steps)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
