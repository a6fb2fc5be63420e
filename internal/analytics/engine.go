package analytics

import (
	"strings"
	"time"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// Engine runs the per-ticket pipeline: normalize, build timeline, aggregate,
// evaluate. It holds no mutable state and may be shared across goroutines.
//
// Unresolved tickets are measured up to the engine clock, so repeated runs
// over the same open ticket report growing durations.
type Engine struct {
	normalizer *Normalizer
	builder    *TimelineBuilder
	aggregator *Aggregator
	evaluator  *Evaluator
	now        func() time.Time
}

// Option customizes an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	vocab   Vocabulary
	budgets BudgetTable
	now     func() time.Time
}

// WithVocabulary overrides the status vocabulary.
func WithVocabulary(v Vocabulary) Option {
	return func(o *engineOptions) { o.vocab = v }
}

// WithBudgets overrides the SLA budget table.
func WithBudgets(t BudgetTable) Option {
	return func(o *engineOptions) { o.budgets = t }
}

// WithClock sets the clock used as boundary for unresolved tickets.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// NewEngine constructs an Engine with the default vocabulary and budgets
// unless overridden.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{
		vocab:   DefaultVocabulary(),
		budgets: DefaultBudgetTable(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		normalizer: NewNormalizer(o.vocab),
		builder:    NewTimelineBuilder(o.vocab),
		aggregator: NewAggregator(o.vocab),
		evaluator:  NewEvaluator(o.budgets),
		now:        o.now,
	}
}

// Process derives the SLA report for one issue.
func (e *Engine) Process(issue domain.Issue) (*domain.SLAReport, error) {
	created, err := ParseTimestamp(issue.Created)
	if err != nil {
		return nil, &TimestampError{IssueKey: issue.Key, Field: "created", Value: issue.Created, Err: err}
	}

	now := e.now().UTC()
	boundary := now
	if issue.Resolved != nil && strings.TrimSpace(*issue.Resolved) != "" {
		if boundary, err = ParseTimestamp(*issue.Resolved); err != nil {
			return nil, &TimestampError{IssueKey: issue.Key, Field: "resolved", Value: *issue.Resolved, Err: err}
		}
	}

	transitions, err := e.normalizer.Normalize(issue.Key, issue.Histories)
	if err != nil {
		return nil, err
	}
	timeline := e.builder.Build(transitions, created, issue.Status)
	durations := Summarize(e.aggregator.Aggregate(timeline, boundary))
	verdict := e.evaluator.Evaluate(issue.Priority, durations.TimeToResolutionMinutes)

	return &domain.SLAReport{
		IssueKey:          issue.Key,
		Summary:           issue.Summary,
		IssueType:         issue.IssueType,
		Status:            issue.Status,
		ProjectName:       issue.ProjectName,
		ProjectType:       issue.ProjectType,
		Priority:          issue.Priority,
		Resolution:        issue.Resolution,
		Assignee:          issue.Assignee,
		Reporter:          issue.Reporter,
		Creator:           issue.Creator,
		Created:           issue.Created,
		Updated:           issue.Updated,
		Resolved:          issue.Resolved,
		Components:        issue.Components,
		SourceDetection:   issue.SourceDetection,
		InvestigationType: issue.InvestigationType,
		Timeline:          timeline,
		Durations:         durations,
		Verdict:           verdict,
		ComputedAt:        now,
	}, nil
}
