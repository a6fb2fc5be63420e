package events

import (
	"time"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSLAEvaluated    EventType = "sla_evaluated"
	EventSLABreached     EventType = "sla_breached"
	EventTicketFailed    EventType = "ticket_failed"
	EventReportCompleted EventType = "report_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RunID     string      `json:"run_id,omitempty"`
	IssueKey  string      `json:"issue_key,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SLAEvaluatedPayload carries the report of an evaluated ticket. It is used
// for both sla_evaluated and sla_breached.
type SLAEvaluatedPayload struct {
	Report *domain.SLAReport `json:"report"`
}

// TicketFailedPayload payload.
type TicketFailedPayload struct {
	Reason string `json:"reason"`
	Field  string `json:"field,omitempty"`
	Error  string `json:"error"`
}

// ReportCompletedPayload payload.
type ReportCompletedPayload struct {
	Total     int    `json:"total"`
	Evaluated int    `json:"evaluated"`
	Failed    int    `json:"failed"`
	Breached  int    `json:"breached"`
	Output    string `json:"output,omitempty"`
}
