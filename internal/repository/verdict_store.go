package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// VerdictStore exposes the latest verdict per ticket to other consumers.
type VerdictStore interface {
	SaveVerdict(ctx context.Context, report *domain.SLAReport) error
}

type redisVerdictStore struct {
	client *redis.Client
	prefix string
}

// NewRedisVerdictStore keeps one hash per ticket and a list of breached keys.
func NewRedisVerdictStore(client *redis.Client, prefix string) VerdictStore {
	if prefix == "" {
		prefix = "sla"
	}
	return &redisVerdictStore{client: client, prefix: prefix}
}

func (s *redisVerdictStore) TicketKey(issueKey string) string {
	return fmt.Sprintf("%s:ticket:%s", s.prefix, issueKey)
}

func (s *redisVerdictStore) BreachesKey() string {
	return s.prefix + ":breaches"
}

func (s *redisVerdictStore) SaveVerdict(ctx context.Context, report *domain.SLAReport) error {
	status := string(report.Verdict.Status)
	if status == "" {
		status = "Unknown"
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.TicketKey(report.IssueKey), map[string]any{
		"run_id":                     report.RunID,
		"sla_status":                 status,
		"breach_minutes":             report.Verdict.BreachMinutes,
		"time_to_resolution_minutes": report.Durations.TimeToResolutionMinutes,
		"computed_at":                report.ComputedAt.Format(time.RFC3339),
	})
	if report.Verdict.Status == domain.SLAStatusBreached {
		pipe.LRem(ctx, s.BreachesKey(), 0, report.IssueKey)
		pipe.LPush(ctx, s.BreachesKey(), report.IssueKey)
	}
	_, err := pipe.Exec(ctx)
	return err
}
