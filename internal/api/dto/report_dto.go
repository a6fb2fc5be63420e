package dto

import (
	"time"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// EvaluateRequest carries one issue with its audit history.
type EvaluateRequest struct {
	Issue domain.Issue `json:"issue"`
}

// RunRequest triggers a batch run.
type RunRequest struct {
	JQL string `json:"jql"`
}

// ReportResponse is the API shape of an SLA report.
type ReportResponse struct {
	IssueKey      string           `json:"issue_key"`
	RunID         string           `json:"run_id,omitempty"`
	Status        string           `json:"status"`
	Priority      *string          `json:"priority,omitempty"`
	Timeline      domain.Timeline  `json:"timeline"`
	Durations     domain.Durations `json:"durations"`
	SLAStatus     string           `json:"sla_status"`
	BudgetMinutes *int64           `json:"sla_budget_minutes,omitempty"`
	BreachMinutes int64            `json:"breach_minutes"`
	ComputedAt    string           `json:"computed_at"`
}

// NewReportResponse maps a report to its API shape.
func NewReportResponse(r *domain.SLAReport) ReportResponse {
	status := string(r.Verdict.Status)
	if status == "" {
		status = "Unknown"
	}
	timeline := r.Timeline
	if timeline == nil {
		timeline = domain.Timeline{}
	}
	return ReportResponse{
		IssueKey:      r.IssueKey,
		RunID:         r.RunID,
		Status:        r.Status,
		Priority:      r.Priority,
		Timeline:      timeline,
		Durations:     r.Durations,
		SLAStatus:     status,
		BudgetMinutes: r.Verdict.BudgetMinutes,
		BreachMinutes: r.Verdict.BreachMinutes,
		ComputedAt:    r.ComputedAt.Format(time.RFC3339),
	}
}
