package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"clientapi/internal/config"
	"clientapi/internal/logger"
)

// New builds the Provisioner selected by cfg.Provider, wrapped in a circuit breaker.
// Missing credentials are not fatal: the service starts and every provisioning
// reports "S3 client not available".
func New(ctx context.Context, cfg config.S3Config) (Provisioner, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		logger.Error(ctx, "object store credentials not configured; bucket provisioning disabled")
		return Unavailable(), nil
	}

	var (
		p   Provisioner
		err error
	)
	switch cfg.Provider {
	case config.ProviderAWS:
		p, err = NewS3(ctx, cfg)
	case config.ProviderMinIO:
		p, err = NewMinIO(cfg)
	default:
		return nil, fmt.Errorf("unsupported S3 provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "object store configured",
		zap.String("provider", cfg.Provider),
		zap.String("region", cfg.Region),
		zap.String("endpoint", cfg.Endpoint),
	)
	return WithBreaker(p, DefaultBreakerConfig()), nil
}
