package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

func TestRecordVerdict(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordVerdict(domain.Verdict{Status: domain.SLAStatusBreached, BreachMinutes: 60})
	m.RecordVerdict(domain.Verdict{Status: domain.SLAStatusMet})
	m.RecordVerdict(domain.Verdict{})
	m.RecordVerdict(domain.Verdict{})
	m.RecordFailure("malformed_timestamp")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TicketsEvaluated.WithLabelValues("Breached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TicketsEvaluated.WithLabelValues("Met")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TicketsEvaluated.WithLabelValues("Unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TicketsFailed.WithLabelValues("malformed_timestamp")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordVerdict(domain.Verdict{Status: domain.SLAStatusMet})
	m.RecordFailure("x")
	m.RecordRun(time.Second)
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "INTERNAL_ERROR")
}
