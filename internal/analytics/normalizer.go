package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

const statusField = "status"

// Normalizer extracts recognized status transitions from audit history.
type Normalizer struct {
	vocab Vocabulary
}

// NewNormalizer builds a normalizer over the given vocabulary.
func NewNormalizer(vocab Vocabulary) *Normalizer {
	return &Normalizer{vocab: vocab}
}

// Normalize returns the status transitions found in histories, unordered.
// Items whose target status is not recognized are dropped. A malformed
// timestamp on any entry carrying a status change fails the ticket. Seq
// numbers follow the supplied order of entries and items and break ties
// between transitions sharing a timestamp.
func (n *Normalizer) Normalize(issueKey string, histories []domain.HistoryEntry) ([]domain.Transition, error) {
	var (
		out []domain.Transition
		seq int
	)
	for i, entry := range histories {
		var (
			at     time.Time
			parsed bool
		)
		for _, item := range entry.Items {
			if !strings.EqualFold(strings.TrimSpace(item.Field), statusField) {
				continue
			}
			seq++
			if !parsed {
				var err error
				if at, err = ParseTimestamp(entry.Created); err != nil {
					return nil, &TimestampError{
						IssueKey: issueKey,
						Field:    fmt.Sprintf("histories[%d].created", i),
						Value:    entry.Created,
						Err:      err,
					}
				}
				parsed = true
			}
			to := domain.NormalizeStatus(item.ToString)
			if !n.vocab.Recognized(to) {
				continue
			}
			t := domain.Transition{To: to, At: at, Seq: seq}
			if item.FromString != nil && strings.TrimSpace(*item.FromString) != "" {
				t.FromPresent = true
				if from := domain.NormalizeStatus(*item.FromString); n.vocab.Recognized(from) {
					t.From = from
				}
			}
			out = append(out, t)
		}
	}
	return out, nil
}
