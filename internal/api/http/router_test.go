package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-sla/internal/analytics"
	"github.com/spec-kit/ticket-sla/internal/api/http/handlers"
	"github.com/spec-kit/ticket-sla/internal/auth"
	"github.com/spec-kit/ticket-sla/internal/domain"
	"github.com/spec-kit/ticket-sla/internal/observability"
	"github.com/spec-kit/ticket-sla/internal/persistence"
	"github.com/spec-kit/ticket-sla/internal/service"
)

var t0 = time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type testServer struct {
	app    *fiber.App
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	logger := zap.NewNop()
	engine := analytics.NewEngine(analytics.WithClock(func() time.Time { return t0.Add(24 * time.Hour) }))
	reports := service.NewReportService(service.ReportDependencies{
		Engine:  engine,
		Metrics: metrics,
		Logger:  logger,
	})
	tokens := auth.NewTokenManager("test-secret", 5)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("ticket-sla-service", "test", map[string]handlers.Pinger{
			"postgres": stubPinger{err: persistence.ErrNotConfigured},
			"redis":    stubPinger{},
		}),
		SLA:            handlers.NewSLAHandler(reports),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Gatherer:       registry,
	})
	return &testServer{app: app, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, body any, scopes ...auth.Scope) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if scopes != nil {
		token, _, err := s.tokens.GenerateToken("test", scopes...)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func breachedIssue() domain.Issue {
	high := "High"
	resolvedAt := t0.Add(300 * time.Minute).Format("2006-01-02T15:04:05.000-0700")
	from := "Open"
	return domain.Issue{
		Key:      "GNOC-1",
		Status:   "Completed",
		Priority: &high,
		Created:  t0.Format("2006-01-02T15:04:05.000-0700"),
		Resolved: &resolvedAt,
		Histories: []domain.HistoryEntry{{
			Created: resolvedAt,
			Items:   []domain.ChangeItem{{Field: "status", FromString: &from, ToString: "Completed"}},
		}},
	}
}

func TestEvaluateRequiresToken(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/v1/sla/evaluate", map[string]any{"issue": breachedIssue()})

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])
}

func TestEvaluateRequiresScope(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/v1/sla/evaluate", map[string]any{"issue": breachedIssue()}, auth.ScopeReportsRead)

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["error"].(map[string]any)["code"])
}

func TestEvaluateReturnsVerdict(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/v1/sla/evaluate", map[string]any{"issue": breachedIssue()}, auth.ScopeEvaluate)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, "GNOC-1", data["issue_key"])
	assert.Equal(t, "Breached", data["sla_status"])
	assert.EqualValues(t, 60, data["breach_minutes"])
	assert.EqualValues(t, 240, data["sla_budget_minutes"])

	durations := data["durations"].(map[string]any)
	assert.EqualValues(t, 300, durations["open_minutes"])
	assert.EqualValues(t, 300, durations["time_to_resolution_minutes"])
	assert.Len(t, data["timeline"], 2)
}

func TestEvaluateUnknownPriority(t *testing.T) {
	s := newTestServer(t)
	issue := breachedIssue()
	issue.Priority = nil

	status, body := s.do(t, fiber.MethodPost, "/v1/sla/evaluate", map[string]any{"issue": issue}, auth.ScopeEvaluate)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Unknown", data["sla_status"])
	assert.EqualValues(t, 0, data["breach_minutes"])
	assert.NotContains(t, data, "sla_budget_minutes")
}

func TestEvaluateMalformedTimestamp(t *testing.T) {
	s := newTestServer(t)
	issue := breachedIssue()
	issue.Created = "yesterday"

	status, body := s.do(t, fiber.MethodPost, "/v1/sla/evaluate", map[string]any{"issue": issue}, auth.ScopeEvaluate)
	require.Equal(t, fiber.StatusBadRequest, status)

	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
	details := errBody["details"].(map[string]any)
	assert.Equal(t, "GNOC-1", details["issue_key"])
	assert.Equal(t, "created", details["field"])
	assert.Equal(t, "yesterday", details["value"])
}

func TestEvaluateRejectsMissingKey(t *testing.T) {
	s := newTestServer(t)
	issue := breachedIssue()
	issue.Key = ""

	status, body := s.do(t, fiber.MethodPost, "/v1/sla/evaluate", map[string]any{"issue": issue}, auth.ScopeEvaluate)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestGetReportWithoutStorage(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/v1/reports/GNOC-1", nil, auth.ScopeReportsRead)

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", body["error"].(map[string]any)["code"])
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/health/live", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, fiber.MethodGet, "/health/ready", nil)
	require.Equal(t, fiber.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "disabled", deps["postgres"])
	assert.Equal(t, "ok", deps["redis"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, fiber.MethodPost, "/v1/sla/evaluate", map[string]any{"issue": breachedIssue()}, auth.ScopeEvaluate)

	resp, err := s.app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "ticket_sla_tickets_evaluated_total")
}
