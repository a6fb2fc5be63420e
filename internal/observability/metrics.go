package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	TicketsEvaluated *prometheus.CounterVec
	TicketsFailed    *prometheus.CounterVec
	BreachMinutes    prometheus.Histogram
	RunDuration      prometheus.Histogram
	Requests         *prometheus.CounterVec
	Errors           *prometheus.CounterVec
}

// NewMetrics registers and returns metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicketsEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_sla_tickets_evaluated_total",
			Help: "Tickets evaluated by SLA verdict.",
		}, []string{"verdict"}),
		TicketsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_sla_tickets_failed_total",
			Help: "Tickets that could not be evaluated, by reason.",
		}, []string{"reason"}),
		BreachMinutes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ticket_sla_breach_minutes",
			Help:    "Minutes over budget for breached tickets.",
			Buckets: prometheus.ExponentialBuckets(15, 2, 10), // 15m .. ~5d
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ticket_sla_report_run_duration_seconds",
			Help:    "Duration of batch report runs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_sla_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_sla_http_errors_total",
			Help: "HTTP errors by route, method and error code.",
		}, []string{"route", "method", "code"}),
	}

	reg.MustRegister(
		m.TicketsEvaluated,
		m.TicketsFailed,
		m.BreachMinutes,
		m.RunDuration,
		m.Requests,
		m.Errors,
	)
	return m
}

// RecordVerdict counts an evaluated ticket.
func (m *Metrics) RecordVerdict(v domain.Verdict) {
	if m == nil {
		return
	}
	label := string(v.Status)
	if label == "" {
		label = "Unknown"
	}
	m.TicketsEvaluated.WithLabelValues(label).Inc()
	if v.Status == domain.SLAStatusBreached {
		m.BreachMinutes.Observe(float64(v.BreachMinutes))
	}
}

// RecordFailure counts a ticket that failed evaluation.
func (m *Metrics) RecordFailure(reason string) {
	if m == nil {
		return
	}
	m.TicketsFailed.WithLabelValues(reason).Inc()
}

// RecordRun observes a finished batch run.
func (m *Metrics) RecordRun(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(path, method, code).Inc()
}
