package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-sla/internal/analytics"
	"github.com/spec-kit/ticket-sla/internal/config"
	"github.com/spec-kit/ticket-sla/internal/domain"
	"github.com/spec-kit/ticket-sla/internal/events"
	"github.com/spec-kit/ticket-sla/internal/observability"
	"github.com/spec-kit/ticket-sla/internal/repository"
	"github.com/spec-kit/ticket-sla/internal/worker"
)

// ErrStorageDisabled is returned by stored-report lookups when no database is
// configured.
var ErrStorageDisabled = errors.New("report storage disabled")

// IssueSource returns tickets with their audit history.
type IssueSource interface {
	SearchIssues(ctx context.Context, jql string) ([]domain.Issue, error)
}

// Exporter accepts the report rows of a run.
type Exporter interface {
	Export(ctx context.Context, reports []domain.SLAReport) error
}

// TicketError identifies the ticket a pipeline failure belongs to.
type TicketError struct {
	IssueKey string
	Err      error
}

func (e *TicketError) Error() string {
	return fmt.Sprintf("ticket %s: %v", e.IssueKey, e.Err)
}

func (e *TicketError) Unwrap() error {
	return e.Err
}

// ReportService coordinates batch and single-ticket SLA evaluation.
type ReportService struct {
	source     IssueSource
	engine     *analytics.Engine
	reports    repository.SLAReportRepository
	runs       repository.ReportRunRepository
	exporter   Exporter
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.ReportConfig
	jql        string
	newRunID   func() string
	now        func() time.Time
}

// ReportDependencies bundles collaborators for the report service. Reports,
// Runs, Exporter, Dispatcher and Metrics are optional.
type ReportDependencies struct {
	Source     IssueSource
	Engine     *analytics.Engine
	Reports    repository.SLAReportRepository
	Runs       repository.ReportRunRepository
	Exporter   Exporter
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Config     config.ReportConfig
	DefaultJQL string
	NewRunID   func() string
	Clock      func() time.Time
}

// RunOptions overrides per-run settings.
type RunOptions struct {
	JQL string
}

// TicketFailure records a ticket skipped by a run.
type TicketFailure struct {
	IssueKey string `json:"issue_key"`
	Error    string `json:"error"`
}

// RunSummary describes a finished batch run.
type RunSummary struct {
	RunID     string             `json:"run_id"`
	Total     int                `json:"total"`
	Evaluated int                `json:"evaluated"`
	Failed    int                `json:"failed"`
	Breached  int                `json:"breached"`
	Output    string             `json:"output,omitempty"`
	Failures  []TicketFailure    `json:"failures,omitempty"`
	Reports   []domain.SLAReport `json:"-"`
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	s := &ReportService{
		source:     deps.Source,
		engine:     deps.Engine,
		reports:    deps.Reports,
		runs:       deps.Runs,
		exporter:   deps.Exporter,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		cfg:        deps.Config,
		jql:        deps.DefaultJQL,
		newRunID:   deps.NewRunID,
		now:        deps.Clock,
	}
	if s.engine == nil {
		s.engine = analytics.NewEngine()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.newRunID == nil {
		s.newRunID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Evaluate runs the pipeline for a single issue without storing it.
func (s *ReportService) Evaluate(ctx context.Context, issue domain.Issue) (*domain.SLAReport, error) {
	report, err := s.engine.Process(issue)
	if err != nil {
		s.recordFailure(ctx, "", issue.Key, err)
		return nil, err
	}
	s.recordReport(ctx, report)
	return report, nil
}

// GetReport returns the stored report for an issue.
func (s *ReportService) GetReport(ctx context.Context, issueKey string) (*domain.SLAReport, error) {
	if s.reports == nil {
		return nil, ErrStorageDisabled
	}
	return s.reports.GetByIssueKey(ctx, issueKey)
}

// ListRun returns the stored reports written by a run.
func (s *ReportService) ListRun(ctx context.Context, runID string) ([]domain.SLAReport, error) {
	if s.reports == nil {
		return nil, ErrStorageDisabled
	}
	return s.reports.ListByRun(ctx, runID)
}

// Run fetches issues, evaluates them in parallel and writes every sink.
// A ticket failure is logged and skipped unless fail-fast is configured, in
// which case the run stops and returns a *TicketError.
func (s *ReportService) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	if s.source == nil {
		return nil, errors.New("no issue source configured")
	}
	jql := opts.JQL
	if jql == "" {
		jql = s.jql
	}

	started := s.now()
	run := &domain.ReportRun{ID: s.newRunID(), JQL: jql, StartedAt: started.UTC()}
	log := s.logger.With(zap.String("run_id", run.ID))
	if s.runs != nil {
		if err := s.runs.Start(ctx, run); err != nil {
			return nil, fmt.Errorf("record run start: %w", err)
		}
	}

	log.Info("fetching issues", zap.String("jql", jql))
	issues, err := s.source.SearchIssues(ctx, jql)
	if err != nil {
		return nil, fmt.Errorf("fetch issues: %w", err)
	}
	log.Info("issues fetched", zap.Int("count", len(issues)))

	pool := worker.NewPool(s.cfg.Workers, s.cfg.FailFast)
	results := worker.Map(ctx, pool, issues, func(_ context.Context, issue domain.Issue) (*domain.SLAReport, error) {
		return s.engine.Process(issue)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var firstErr *TicketError
	if s.cfg.FailFast {
		for i, res := range results {
			if res.Err != nil && !errors.Is(res.Err, context.Canceled) {
				firstErr = &TicketError{IssueKey: issues[i].Key, Err: res.Err}
				break
			}
		}
	}

	summary := &RunSummary{RunID: run.ID, Total: len(issues)}
	for i, res := range results {
		key := issues[i].Key
		if res.Err != nil {
			if firstErr != nil && errors.Is(res.Err, context.Canceled) {
				continue
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, TicketFailure{IssueKey: key, Error: res.Err.Error()})
			s.recordFailure(ctx, run.ID, key, res.Err)
			continue
		}

		report := res.Value
		report.RunID = run.ID
		if s.reports != nil && s.cfg.StoreResults {
			if err := s.reports.Upsert(ctx, report); err != nil {
				return nil, fmt.Errorf("store report %s: %w", key, err)
			}
		}
		s.recordReport(ctx, report)
		summary.Evaluated++
		if report.Verdict.Status == domain.SLAStatusBreached {
			summary.Breached++
		}
		summary.Reports = append(summary.Reports, *report)

		if s.cfg.ProgressEvery > 0 && (i+1)%s.cfg.ProgressEvery == 0 {
			log.Info("processed tickets", zap.Int("count", i+1))
		}
	}
	if firstErr != nil {
		return summary, firstErr
	}

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, summary.Reports); err != nil {
			return summary, fmt.Errorf("export reports: %w", err)
		}
		if p, ok := s.exporter.(interface{ Path() string }); ok {
			summary.Output = p.Path()
		}
	}

	run.FinishedAt = s.now().UTC()
	run.Total = summary.Total
	run.Evaluated = summary.Evaluated
	run.Failed = summary.Failed
	run.Breached = summary.Breached
	if s.runs != nil {
		if err := s.runs.Finish(ctx, run); err != nil {
			log.Warn("failed to record run completion", zap.Error(err))
		}
	}
	s.metrics.RecordRun(run.FinishedAt.Sub(run.StartedAt))
	s.publish(ctx, events.Event{
		Type:  events.EventReportCompleted,
		RunID: run.ID,
		Payload: events.ReportCompletedPayload{
			Total:     summary.Total,
			Evaluated: summary.Evaluated,
			Failed:    summary.Failed,
			Breached:  summary.Breached,
			Output:    summary.Output,
		},
	})
	log.Info("report run completed",
		zap.Int("total", summary.Total),
		zap.Int("evaluated", summary.Evaluated),
		zap.Int("failed", summary.Failed),
		zap.Int("breached", summary.Breached),
		zap.String("output", summary.Output))
	return summary, nil
}

func (s *ReportService) recordReport(ctx context.Context, report *domain.SLAReport) {
	s.metrics.RecordVerdict(report.Verdict)
	payload := events.SLAEvaluatedPayload{Report: report}
	s.publish(ctx, events.Event{Type: events.EventSLAEvaluated, RunID: report.RunID, IssueKey: report.IssueKey, Payload: payload})
	if report.Verdict.Status == domain.SLAStatusBreached {
		s.publish(ctx, events.Event{Type: events.EventSLABreached, RunID: report.RunID, IssueKey: report.IssueKey, Payload: payload})
	}
}

func (s *ReportService) recordFailure(ctx context.Context, runID, issueKey string, err error) {
	reason := "internal"
	payload := events.TicketFailedPayload{Error: err.Error()}
	var tsErr *analytics.TimestampError
	if errors.As(err, &tsErr) {
		reason = "malformed_timestamp"
		payload.Field = tsErr.Field
	}
	payload.Reason = reason

	s.metrics.RecordFailure(reason)
	s.logger.Warn("ticket evaluation failed",
		zap.String("run_id", runID),
		zap.String("issue_key", issueKey),
		zap.String("reason", reason),
		zap.Error(err))
	s.publish(ctx, events.Event{Type: events.EventTicketFailed, RunID: runID, IssueKey: issueKey, Payload: payload})
}

func (s *ReportService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("issue_key", event.IssueKey),
			zap.Error(err))
	}
}
