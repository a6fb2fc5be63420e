package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// SLAReportRepository stores the latest report per issue.
type SLAReportRepository interface {
	Upsert(ctx context.Context, report *domain.SLAReport) error
	GetByIssueKey(ctx context.Context, key string) (*domain.SLAReport, error)
	ListByRun(ctx context.Context, runID string) ([]domain.SLAReport, error)
}

type slaReportRepository struct {
	pool *pgxpool.Pool
}

// NewSLAReportRepository builds repository.
func NewSLAReportRepository(pool *pgxpool.Pool) SLAReportRepository {
	return &slaReportRepository{pool: pool}
}

func (r *slaReportRepository) Upsert(ctx context.Context, report *domain.SLAReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", report.IssueKey, err)
	}
	var runID *string
	if report.RunID != "" {
		runID = &report.RunID
	}
	const query = `
        INSERT INTO sla_reports (issue_key, run_id, priority, sla_status, time_to_resolution_minutes, breach_minutes, payload, computed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (issue_key) DO UPDATE SET
            run_id=EXCLUDED.run_id, priority=EXCLUDED.priority, sla_status=EXCLUDED.sla_status,
            time_to_resolution_minutes=EXCLUDED.time_to_resolution_minutes, breach_minutes=EXCLUDED.breach_minutes,
            payload=EXCLUDED.payload, computed_at=EXCLUDED.computed_at`
	_, err = r.pool.Exec(ctx, query,
		report.IssueKey,
		runID,
		report.Priority,
		nullableStatus(report.Verdict.Status),
		report.Durations.TimeToResolutionMinutes,
		report.Verdict.BreachMinutes,
		payload,
		report.ComputedAt,
	)
	return err
}

func (r *slaReportRepository) GetByIssueKey(ctx context.Context, key string) (*domain.SLAReport, error) {
	const query = `SELECT payload FROM sla_reports WHERE issue_key=$1`
	var payload []byte
	if err := r.pool.QueryRow(ctx, query, key).Scan(&payload); err != nil {
		return nil, err
	}
	return decodeReport(payload)
}

func (r *slaReportRepository) ListByRun(ctx context.Context, runID string) ([]domain.SLAReport, error) {
	const query = `SELECT payload FROM sla_reports WHERE run_id=$1 ORDER BY issue_key ASC`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAReport
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		report, err := decodeReport(payload)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func decodeReport(payload []byte) (*domain.SLAReport, error) {
	var report domain.SLAReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode stored report: %w", err)
	}
	return &report, nil
}

func nullableStatus(s domain.SLAStatus) *string {
	if s == domain.SLAStatusUnknown {
		return nil
	}
	v := string(s)
	return &v
}

