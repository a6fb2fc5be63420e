package analytics

import (
	"fmt"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// Vocabulary is the closed set of lifecycle statuses the engine understands,
// with the subset treated as terminal. A Vocabulary is immutable once built.
type Vocabulary struct {
	recognized map[domain.StatusName]struct{}
	terminal   map[domain.StatusName]struct{}
}

// NewVocabulary builds a vocabulary. Every terminal status must also be
// recognized.
func NewVocabulary(recognized, terminal []domain.StatusName) (Vocabulary, error) {
	v := Vocabulary{
		recognized: make(map[domain.StatusName]struct{}, len(recognized)),
		terminal:   make(map[domain.StatusName]struct{}, len(terminal)),
	}
	for _, s := range recognized {
		s = domain.NormalizeStatus(string(s))
		if s == "" {
			return Vocabulary{}, fmt.Errorf("empty status in vocabulary")
		}
		v.recognized[s] = struct{}{}
	}
	for _, s := range terminal {
		s = domain.NormalizeStatus(string(s))
		if _, ok := v.recognized[s]; !ok {
			return Vocabulary{}, fmt.Errorf("terminal status %q is not recognized", s)
		}
		v.terminal[s] = struct{}{}
	}
	return v, nil
}

// DefaultVocabulary returns the incident workflow statuses.
func DefaultVocabulary() Vocabulary {
	v, _ := NewVocabulary(
		[]domain.StatusName{
			domain.StatusOpen,
			domain.StatusWorkInProgress,
			domain.StatusInReview,
			domain.StatusCompleted,
			domain.StatusCancelled,
			domain.StatusCanceled,
			domain.StatusClosed,
		},
		[]domain.StatusName{
			domain.StatusCompleted,
			domain.StatusCancelled,
			domain.StatusCanceled,
			domain.StatusClosed,
		},
	)
	return v
}

// Recognized reports whether s belongs to the vocabulary.
func (v Vocabulary) Recognized(s domain.StatusName) bool {
	_, ok := v.recognized[s]
	return ok
}

// Terminal reports whether s is an absorbing status.
func (v Vocabulary) Terminal(s domain.StatusName) bool {
	_, ok := v.terminal[s]
	return ok
}
