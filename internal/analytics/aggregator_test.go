package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-sla/internal/analytics"
	"github.com/spec-kit/ticket-sla/internal/domain"
)

func TestAggregateSkipsTerminalAndNonPositiveSegments(t *testing.T) {
	a := analytics.NewAggregator(analytics.DefaultVocabulary())

	timeline := domain.Timeline{
		{Status: domain.StatusOpen, Timestamp: t0},
		{Status: domain.StatusInReview, Timestamp: t0.Add(10 * time.Minute)},
		{Status: domain.StatusWorkInProgress, Timestamp: t0.Add(10 * time.Minute)},
		{Status: domain.StatusCancelled, Timestamp: t0.Add(40 * time.Minute)},
		{Status: domain.StatusOpen, Timestamp: t0.Add(100 * time.Minute)},
	}

	got := a.Aggregate(timeline, t0.Add(130*time.Minute))
	assert.Equal(t, analytics.DurationMap{
		domain.StatusOpen:           40 * time.Minute,
		domain.StatusWorkInProgress: 30 * time.Minute,
	}, got)
}

func TestAggregateBoundaryBeforeLastEvent(t *testing.T) {
	a := analytics.NewAggregator(analytics.DefaultVocabulary())

	timeline := domain.Timeline{
		{Status: domain.StatusOpen, Timestamp: t0},
		{Status: domain.StatusInReview, Timestamp: t0.Add(time.Hour)},
	}

	got := a.Aggregate(timeline, t0.Add(30*time.Minute))
	assert.Equal(t, analytics.DurationMap{domain.StatusOpen: time.Hour}, got)
}

func TestAggregateEmptyTimeline(t *testing.T) {
	a := analytics.NewAggregator(analytics.DefaultVocabulary())

	got := analytics.Summarize(a.Aggregate(nil, t0))
	assert.Equal(t, domain.Durations{}, got)
}

func TestSummarizeTruncatesOncePerField(t *testing.T) {
	durations := analytics.DurationMap{
		domain.StatusOpen:           90*time.Second + 30*time.Second,
		domain.StatusWorkInProgress: 59 * time.Second,
		domain.StatusInReview:       61 * time.Second,
	}

	got := analytics.Summarize(durations)
	assert.Equal(t, int64(2), got.OpenMinutes)
	assert.Equal(t, int64(0), got.WorkInProgressMinutes)
	assert.Equal(t, int64(1), got.InReviewMinutes)
	assert.Equal(t, int64(3), got.TimeToResolutionMinutes)
}

func TestSummarizeCombinesCancelSpellings(t *testing.T) {
	vocab, err := analytics.NewVocabulary(
		[]domain.StatusName{domain.StatusOpen, domain.StatusCancelled, domain.StatusCanceled},
		nil,
	)
	assert.NoError(t, err)
	a := analytics.NewAggregator(vocab)

	timeline := domain.Timeline{
		{Status: domain.StatusCancelled, Timestamp: t0},
		{Status: domain.StatusCanceled, Timestamp: t0.Add(30*time.Minute + 30*time.Second)},
	}
	got := analytics.Summarize(a.Aggregate(timeline, t0.Add(61*time.Minute)))
	assert.Equal(t, int64(61), got.CancelledMinutes)
	assert.Equal(t, int64(0), got.TimeToResolutionMinutes)
}

func TestNewVocabularyRejectsUnknownTerminal(t *testing.T) {
	_, err := analytics.NewVocabulary(
		[]domain.StatusName{domain.StatusOpen},
		[]domain.StatusName{domain.StatusClosed},
	)
	assert.Error(t, err)
}
