package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clientapi/docs"
	"clientapi/internal/auth"
	"clientapi/internal/config"
	handlers "clientapi/internal/http/handler"
	"clientapi/internal/http/middleware"
	"clientapi/internal/logger"
	"clientapi/internal/metrics"
	"clientapi/internal/otel"
	"clientapi/internal/service"
	"clientapi/internal/storage"
)

func serveCommand(cfg *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := otel.Init(ctx)
			if err != nil {
				logger.Fatal(ctx, "could not initialize tracing", zap.Error(err))
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logger.Warn(ctx, "could not flush traces", zap.Error(err))
				}
			}()

			repo, closeStore := openStore(ctx, cfg)
			defer closeStore()

			provisioner, err := storage.New(ctx, cfg.S3)
			if err != nil {
				logger.Fatal(ctx, "could not initialize object storage", zap.Error(err))
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			domain, err := metrics.NewDomain(reg)
			if err != nil {
				logger.Fatal(ctx, "could not register domain metrics", zap.Error(err))
			}

			if cfg.Auth.GoogleClientID == "" {
				logger.Warn(ctx, "GOOGLE_CLIENT_ID not set; token exchange is disabled")
			}
			verifier, err := auth.NewGoogleVerifier(ctx, cfg.Auth.GoogleClientID)
			if err != nil {
				logger.Fatal(ctx, "could not create google token verifier", zap.Error(err))
			}
			if cfg.Auth.JWTSecretKey == config.DefaultJWTSecret {
				logger.Warn(ctx, "JWT_SECRET_KEY uses the development default; set it in production")
			}
			tokens, err := auth.NewJWTManager(cfg.Auth)
			if err != nil {
				logger.Fatal(ctx, "could not create jwt manager", zap.Error(err))
			}

			deps := handlers.Dependencies{
				Clients: service.NewClientService(repo, provisioner, service.ClientDefaults{
					Region: cfg.S3.Region,
					Agent:  cfg.Agent,
				}, domain),
				Auth:        service.NewAuthService(verifier, tokens, domain),
				Store:       repo,
				RequireAuth: cfg.Auth.Required,
			}

			app, err := newApp(ctx, reg, deps)
			if err != nil {
				logger.Fatal(ctx, "could not build http app", zap.Error(err))
			}

			go func() {
				addr := ":" + cfg.Port
				logger.Info(ctx, "starting webserver...", zap.String("addr", addr))
				if err := app.Listen(addr); err != nil {
					logger.Error(ctx, "could not start webserver", zap.Error(err))
					stop()
				}
			}()

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
			defer cancel()

			logger.Info(ctx, "stopping webserver...")
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				logger.Error(ctx, "could not stop webserver", zap.Error(err))
			}
		},
	}
}

// newApp builds the fiber application with the global middleware stack,
// the metrics and swagger endpoints and the API routes.
func newApp(ctx context.Context, reg *prometheus.Registry, deps handlers.Dependencies) (*fiber.App, error) {
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	// Any origin with credentials; the origin is echoed back since "*" is not allowed with credentials.
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(string) bool { return true },
		AllowCredentials: true,
	}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger.Get(ctx)))
	app.Use(prom.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, deps)

	return app, nil
}
