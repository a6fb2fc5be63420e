package analytics

import (
	"sort"
	"time"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// TimelineBuilder merges the creation state with transitions into a Timeline.
type TimelineBuilder struct {
	vocab Vocabulary
}

// NewTimelineBuilder builds a TimelineBuilder over vocab.
func NewTimelineBuilder(vocab Vocabulary) *TimelineBuilder {
	return &TimelineBuilder{vocab: vocab}
}

type timelineEntry struct {
	event domain.StatusEvent
	seq   int
}

// Build orders the ticket's status history. The creation entry, if any, sorts
// before transitions at the same instant; transitions at the same instant keep
// their history sequence.
func (b *TimelineBuilder) Build(transitions []domain.Transition, created time.Time, currentStatus string) domain.Timeline {
	entries := make([]timelineEntry, 0, len(transitions)+1)

	if initial := b.initialStatus(transitions, currentStatus); b.vocab.Recognized(initial) {
		entries = append(entries, timelineEntry{
			event: domain.StatusEvent{Status: initial, Timestamp: created},
			seq:   -1,
		})
	}
	for _, t := range transitions {
		entries = append(entries, timelineEntry{
			event: domain.StatusEvent{Status: t.To, Timestamp: t.At},
			seq:   t.Seq,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := entries[i].event.Timestamp, entries[j].event.Timestamp
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return entries[i].seq < entries[j].seq
	})

	timeline := make(domain.Timeline, len(entries))
	for i, e := range entries {
		timeline[i] = e.event
	}
	return timeline
}

// initialStatus is the "from" of the earliest transition, or the current
// status when there is no transition or the earliest one has no "from".
func (b *TimelineBuilder) initialStatus(transitions []domain.Transition, currentStatus string) domain.StatusName {
	if len(transitions) == 0 {
		return domain.NormalizeStatus(currentStatus)
	}
	earliest := transitions[0]
	for _, t := range transitions[1:] {
		if t.At.Before(earliest.At) || (t.At.Equal(earliest.At) && t.Seq < earliest.Seq) {
			earliest = t
		}
	}
	if !earliest.FromPresent {
		return domain.NormalizeStatus(currentStatus)
	}
	return earliest.From
}
