package analytics_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-sla/internal/analytics"
	"github.com/spec-kit/ticket-sla/internal/domain"
)

func TestNormalizeFiltersAndUppercases(t *testing.T) {
	n := analytics.NewNormalizer(analytics.DefaultVocabulary())

	histories := []domain.HistoryEntry{
		{
			Created: jiraTime(t0.Add(time.Minute)),
			Items: []domain.ChangeItem{
				{Field: "assignee", FromString: strPtr("alice"), ToString: "bob"},
				{Field: "Status", FromString: strPtr("open"), ToString: "work in progress"},
			},
		},
		statusEntry(t0.Add(2*time.Minute), strPtr("Work In Progress"), "Waiting for Vendor"),
		statusEntry(t0.Add(3*time.Minute), strPtr("Waiting for Vendor"), "In Review"),
		statusEntry(t0.Add(4*time.Minute), nil, "Canceled"),
	}

	got, err := n.Normalize("GNOC-1", histories)
	require.NoError(t, err)

	assert.Equal(t, []domain.Transition{
		{From: domain.StatusOpen, FromPresent: true, To: domain.StatusWorkInProgress, At: t0.Add(time.Minute), Seq: 1},
		{From: "", FromPresent: true, To: domain.StatusInReview, At: t0.Add(3 * time.Minute), Seq: 3},
		{To: domain.StatusCanceled, At: t0.Add(4 * time.Minute), Seq: 4},
	}, got)
}

func TestNormalizeIgnoresTimestampsWithoutStatusChanges(t *testing.T) {
	n := analytics.NewNormalizer(analytics.DefaultVocabulary())

	got, err := n.Normalize("GNOC-1", []domain.HistoryEntry{{
		Created: "garbage",
		Items:   []domain.ChangeItem{{Field: "priority", ToString: "High"}},
	}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeFailsOnUnrecognizedStatusWithBadTimestamp(t *testing.T) {
	n := analytics.NewNormalizer(analytics.DefaultVocabulary())

	_, err := n.Normalize("GNOC-1", []domain.HistoryEntry{{
		Created: "garbage",
		Items:   []domain.ChangeItem{{Field: "status", ToString: "Triage"}},
	}})
	var tsErr *analytics.TimestampError
	require.ErrorAs(t, err, &tsErr)
	assert.Equal(t, "histories[0].created", tsErr.Field)
}

func TestBuildInitialStatus(t *testing.T) {
	b := analytics.NewTimelineBuilder(analytics.DefaultVocabulary())

	cases := []struct {
		name        string
		transitions []domain.Transition
		current     string
		want        domain.Timeline
	}{
		{
			name:    "no transitions falls back to current status",
			current: "Open",
			want:    domain.Timeline{{Status: domain.StatusOpen, Timestamp: t0}},
		},
		{
			name:    "unrecognized current status yields empty timeline",
			current: "Triage",
			want:    domain.Timeline{},
		},
		{
			name: "earliest from wins over current status",
			transitions: []domain.Transition{
				{From: domain.StatusInReview, FromPresent: true, To: domain.StatusClosed, At: t0.Add(20 * time.Minute), Seq: 2},
				{From: domain.StatusOpen, FromPresent: true, To: domain.StatusInReview, At: t0.Add(10 * time.Minute), Seq: 1},
			},
			current: "Closed",
			want: domain.Timeline{
				{Status: domain.StatusOpen, Timestamp: t0},
				{Status: domain.StatusInReview, Timestamp: t0.Add(10 * time.Minute)},
				{Status: domain.StatusClosed, Timestamp: t0.Add(20 * time.Minute)},
			},
		},
		{
			name: "missing from falls back to current status",
			transitions: []domain.Transition{
				{To: domain.StatusClosed, At: t0.Add(5 * time.Minute), Seq: 1},
			},
			current: "closed",
			want: domain.Timeline{
				{Status: domain.StatusClosed, Timestamp: t0},
				{Status: domain.StatusClosed, Timestamp: t0.Add(5 * time.Minute)},
			},
		},
		{
			name: "unrecognized from drops the creation entry",
			transitions: []domain.Transition{
				{FromPresent: true, To: domain.StatusOpen, At: t0.Add(5 * time.Minute), Seq: 1},
			},
			current: "Open",
			want:    domain.Timeline{{Status: domain.StatusOpen, Timestamp: t0.Add(5 * time.Minute)}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Build(tc.transitions, t0, tc.current))
		})
	}
}

func TestBuildTieBreakIsDeterministic(t *testing.T) {
	b := analytics.NewTimelineBuilder(analytics.DefaultVocabulary())
	same := t0.Add(time.Hour)

	transitions := []domain.Transition{
		{From: domain.StatusWorkInProgress, FromPresent: true, To: domain.StatusInReview, At: same, Seq: 3},
		{From: domain.StatusOpen, FromPresent: true, To: domain.StatusWorkInProgress, At: same, Seq: 2},
		{From: domain.StatusOpen, FromPresent: true, To: domain.StatusOpen, At: t0, Seq: 1},
	}

	got := b.Build(transitions, t0, "In Review")
	assert.Equal(t, domain.Timeline{
		{Status: domain.StatusOpen, Timestamp: t0},
		{Status: domain.StatusOpen, Timestamp: t0},
		{Status: domain.StatusWorkInProgress, Timestamp: same},
		{Status: domain.StatusInReview, Timestamp: same},
	}, got)
}

var allStatuses = []string{
	"Open", "Work in Progress", "In Review", "Completed", "Cancelled", "Canceled", "Closed", "Triage",
}

func randomHistory(r *rand.Rand) []domain.HistoryEntry {
	n := r.Intn(12)
	histories := make([]domain.HistoryEntry, 0, n)
	for i := 0; i < n; i++ {
		at := t0.Add(time.Duration(r.Intn(600)) * time.Minute)
		from := allStatuses[r.Intn(len(allStatuses))]
		to := allStatuses[r.Intn(len(allStatuses))]
		histories = append(histories, statusEntry(at, &from, to))
	}
	return histories
}

func TestTimelineAndDurationProperties(t *testing.T) {
	vocab := analytics.DefaultVocabulary()
	n := analytics.NewNormalizer(vocab)
	b := analytics.NewTimelineBuilder(vocab)
	a := analytics.NewAggregator(vocab)
	evaluator := analytics.NewEvaluator(analytics.DefaultBudgetTable())
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		transitions, err := n.Normalize("GNOC-P", randomHistory(r))
		require.NoError(t, err)

		current := allStatuses[r.Intn(len(allStatuses))]
		timeline := b.Build(transitions, t0, current)
		for j := 1; j < len(timeline); j++ {
			require.False(t, timeline[j].Timestamp.Before(timeline[j-1].Timestamp), "timeline out of order")
		}
		for _, ev := range timeline {
			require.True(t, vocab.Recognized(ev.Status))
		}

		boundary := t0.Add(time.Duration(r.Intn(900)) * time.Minute)
		durations := a.Aggregate(timeline, boundary)
		for status, d := range durations {
			require.False(t, vocab.Terminal(status), "terminal status %s accumulated time", status)
			require.True(t, d >= 0, "negative duration for %s", status)
		}

		summary := analytics.Summarize(durations)
		require.Zero(t, summary.CompletedMinutes)
		require.Zero(t, summary.CancelledMinutes)
		require.Zero(t, summary.ClosedMinutes)
		require.GreaterOrEqual(t, summary.TimeToResolutionMinutes, int64(0))

		priority := []string{"Highest", "High", "Medium", "Low", "Lowest"}[r.Intn(5)]
		verdict := evaluator.Evaluate(&priority, summary.TimeToResolutionMinutes)
		require.GreaterOrEqual(t, verdict.BreachMinutes, int64(0))
	}
}
