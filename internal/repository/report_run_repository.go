package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// ReportRunRepository records batch run bookkeeping.
type ReportRunRepository interface {
	Start(ctx context.Context, run *domain.ReportRun) error
	Finish(ctx context.Context, run *domain.ReportRun) error
}

type reportRunRepository struct {
	pool *pgxpool.Pool
}

// NewReportRunRepository builds repository.
func NewReportRunRepository(pool *pgxpool.Pool) ReportRunRepository {
	return &reportRunRepository{pool: pool}
}

func (r *reportRunRepository) Start(ctx context.Context, run *domain.ReportRun) error {
	const query = `INSERT INTO report_runs (id, jql, started_at) VALUES ($1,$2,$3)`
	_, err := r.pool.Exec(ctx, query, run.ID, run.JQL, run.StartedAt)
	return err
}

func (r *reportRunRepository) Finish(ctx context.Context, run *domain.ReportRun) error {
	const query = `
        UPDATE report_runs SET finished_at=$1, total=$2, evaluated=$3, failed=$4, breached=$5
        WHERE id=$6`
	_, err := r.pool.Exec(ctx, query,
		run.FinishedAt,
		run.Total,
		run.Evaluated,
		run.Failed,
		run.Breached,
		run.ID,
	)
	return err
}
