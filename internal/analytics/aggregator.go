package analytics

import (
	"time"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// DurationMap accumulates time spent per non-terminal status.
type DurationMap map[domain.StatusName]time.Duration

// Minutes returns the whole minutes recorded for s.
func (m DurationMap) Minutes(s domain.StatusName) int64 {
	return int64(m[s] / time.Minute)
}

// Aggregator walks a timeline and attributes each segment to its status.
type Aggregator struct {
	vocab Vocabulary
}

// NewAggregator builds an Aggregator over vocab.
func NewAggregator(vocab Vocabulary) *Aggregator {
	return &Aggregator{vocab: vocab}
}

// Aggregate attributes [t_i, t_i+1) to status_i, and the last entry's segment
// runs to boundary. Terminal segments are not counted; segments with end <=
// start contribute nothing.
func (a *Aggregator) Aggregate(timeline domain.Timeline, boundary time.Time) DurationMap {
	out := make(DurationMap)
	for i, ev := range timeline {
		if a.vocab.Terminal(ev.Status) {
			continue
		}
		end := boundary
		if i+1 < len(timeline) {
			end = timeline[i+1].Timestamp
		}
		if !end.After(ev.Timestamp) {
			continue
		}
		out[ev.Status] += end.Sub(ev.Timestamp)
	}
	return out
}

// Summarize converts accumulated time into the per-status minute fields.
// Truncation to minutes happens once per output field.
func Summarize(m DurationMap) domain.Durations {
	d := domain.Durations{
		OpenMinutes:           m.Minutes(domain.StatusOpen),
		WorkInProgressMinutes: m.Minutes(domain.StatusWorkInProgress),
		InReviewMinutes:       m.Minutes(domain.StatusInReview),
		CompletedMinutes:      m.Minutes(domain.StatusCompleted),
		CancelledMinutes:      int64((m[domain.StatusCancelled] + m[domain.StatusCanceled]) / time.Minute),
		ClosedMinutes:         m.Minutes(domain.StatusClosed),
	}
	d.TimeToResolutionMinutes = d.OpenMinutes + d.WorkInProgressMinutes + d.InReviewMinutes
	return d
}
