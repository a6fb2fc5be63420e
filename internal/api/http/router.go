package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/ticket-sla/internal/api/http/handlers"
	"github.com/spec-kit/ticket-sla/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	SLA            *handlers.SLAHandler
	AuthMiddleware *auth.AuthMiddleware
	Gatherer       prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := app.Group("/v1", cfg.AuthMiddleware.Handle)
	v1.Post("/sla/evaluate", auth.RequireScope(auth.ScopeEvaluate), cfg.SLA.Evaluate)
	v1.Get("/reports/:key", auth.RequireScope(auth.ScopeReportsRead), cfg.SLA.GetReport)
	v1.Get("/runs/:id/reports", auth.RequireScope(auth.ScopeReportsRead), cfg.SLA.ListRun)
	v1.Post("/reports/run", auth.RequireScope(auth.ScopeReportsRun), cfg.SLA.Run)
}
