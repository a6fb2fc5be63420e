// Package app wires the service collaborators shared by the binaries.
package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-sla/internal/analytics"
	"github.com/spec-kit/ticket-sla/internal/config"
	"github.com/spec-kit/ticket-sla/internal/events"
	"github.com/spec-kit/ticket-sla/internal/export"
	"github.com/spec-kit/ticket-sla/internal/jira"
	"github.com/spec-kit/ticket-sla/internal/observability"
	"github.com/spec-kit/ticket-sla/internal/persistence"
	"github.com/spec-kit/ticket-sla/internal/repository"
	"github.com/spec-kit/ticket-sla/internal/service"
)

// App holds initialized infrastructure and services.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Reports  *service.ReportService
}

// New connects stores and builds the report service. Postgres and Redis are
// optional; an empty DSN or address disables them.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			pg.Close()
			return nil, err
		}
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher()
	var store repository.VerdictStore
	if rdb.Enabled() {
		store = repository.NewRedisVerdictStore(rdb.Client, rdb.Prefix)
	}
	service.NewBreachNotifier(dispatcher, store, logger).RegisterHandlers()

	deps := service.ReportDependencies{
		Source: jira.NewClient(cfg.Jira, &http.Client{Timeout: cfg.Jira.Timeout()}, logger),
		Engine: analytics.NewEngine(
			analytics.WithVocabulary(cfg.SLA.Vocabulary),
			analytics.WithBudgets(cfg.SLA.Budgets),
		),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		Config:     cfg.Report,
		DefaultJQL: cfg.Jira.JQL,
	}
	if cfg.Report.OutputPath != "" {
		deps.Exporter = export.NewCSVExporter(cfg.Report.OutputPath)
	}
	if pg.Enabled() && cfg.Report.StoreResults {
		deps.Reports = repository.NewSLAReportRepository(pg.Pool)
		deps.Runs = repository.NewReportRunRepository(pg.Pool)
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Postgres: pg,
		Redis:    rdb,
		Registry: registry,
		Metrics:  metrics,
		Reports:  service.NewReportService(deps),
	}, nil
}

// Close releases store connections.
func (a *App) Close() {
	a.Redis.Close()
	a.Postgres.Close()
}
