package domain

import "time"

// SLAStatus is the compliance verdict of a ticket.
type SLAStatus string

const (
	SLAStatusMet      SLAStatus = "Met"
	SLAStatusBreached SLAStatus = "Breached"
	SLAStatusUnknown  SLAStatus = ""
)

// Verdict is the SLA outcome for one ticket.
type Verdict struct {
	Status        SLAStatus `json:"sla_status,omitempty"`
	BudgetMinutes *int64    `json:"sla_budget_minutes,omitempty"`
	BreachMinutes int64     `json:"breach_minutes"`
}

// Durations holds whole minutes spent per status.
type Durations struct {
	OpenMinutes             int64 `json:"open_minutes"`
	WorkInProgressMinutes   int64 `json:"work_in_progress_minutes"`
	InReviewMinutes         int64 `json:"in_review_minutes"`
	CompletedMinutes        int64 `json:"completed_minutes"`
	CancelledMinutes        int64 `json:"cancelled_minutes"`
	ClosedMinutes           int64 `json:"closed_minutes"`
	TimeToResolutionMinutes int64 `json:"time_to_resolution_minutes"`
}

// SLAReport is the flat output row for one ticket: pass-through metadata plus
// the derived timeline figures.
type SLAReport struct {
	RunID             string    `json:"run_id,omitempty"`
	IssueKey          string    `json:"issue_key"`
	Summary           string    `json:"summary"`
	IssueType         string    `json:"issue_type,omitempty"`
	Status            string    `json:"status"`
	ProjectName       string    `json:"project_name,omitempty"`
	ProjectType       string    `json:"project_type,omitempty"`
	Priority          *string   `json:"priority,omitempty"`
	Resolution        *string   `json:"resolution,omitempty"`
	Assignee          string    `json:"assignee,omitempty"`
	Reporter          string    `json:"reporter,omitempty"`
	Creator           string    `json:"creator,omitempty"`
	Created           string    `json:"created"`
	Updated           string    `json:"updated,omitempty"`
	Resolved          *string   `json:"resolved,omitempty"`
	Components        []string  `json:"components,omitempty"`
	SourceDetection   string    `json:"source_detection,omitempty"`
	InvestigationType string    `json:"investigation_type,omitempty"`
	Timeline          Timeline  `json:"timeline"`
	Durations         Durations `json:"durations"`
	Verdict           Verdict   `json:"verdict"`
	ComputedAt        time.Time `json:"computed_at"`
}

// ReportRun is the bookkeeping record of one batch run.
type ReportRun struct {
	ID         string
	JQL        string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Evaluated  int
	Failed     int
	Breached   int
}
