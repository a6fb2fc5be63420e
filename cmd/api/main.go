package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-sla/internal/api/http"
	"github.com/spec-kit/ticket-sla/internal/api/http/handlers"
	"github.com/spec-kit/ticket-sla/internal/app"
	"github.com/spec-kit/ticket-sla/internal/auth"
	"github.com/spec-kit/ticket-sla/internal/config"
	"github.com/spec-kit/ticket-sla/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init service", zap.Error(err))
	}
	defer a.Close()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	fiberApp := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(fiberApp, logger, a.Metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(fiberApp, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": a.Postgres,
			"redis":    a.Redis,
		}),
		SLA:            handlers.NewSLAHandler(a.Reports),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Gatherer:       a.Registry,
	})

	go func() {
		if err := fiberApp.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = fiberApp.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
