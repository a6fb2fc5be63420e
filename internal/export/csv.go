package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

// Columns is the header row of the CSV report.
var Columns = []string{
	"Issue key",
	"Summary",
	"Issue Type",
	"Status",
	"Project name",
	"Project type",
	"Priority",
	"Resolution",
	"Assignee",
	"Reporter",
	"Creator",
	"Created",
	"Updated",
	"Resolved",
	"Components",
	"Source / Detection",
	"Investigation Type",
	"OPEN (Minutes)",
	"WORK IN PROGRESS (Minutes)",
	"IN REVIEW (Minutes)",
	"COMPLETED (Minutes)",
	"CANCELLED (Minutes)",
	"CLOSED (Minutes)",
	"Time to Resolution (Minutes)",
	"SLA Status",
	"Time Breached (Minutes)",
}

// CSVExporter writes report rows to a CSV file.
type CSVExporter struct {
	path string
}

// NewCSVExporter returns an exporter targeting path.
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Path returns the output file.
func (e *CSVExporter) Path() string {
	return e.path
}

// Export replaces the output file with the given rows, creating the parent
// directory if needed.
func (e *CSVExporter) Export(_ context.Context, reports []domain.SLAReport) error {
	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", e.path, err)
	}
	if err := WriteCSV(f, reports); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes the header and one row per report.
func WriteCSV(w io.Writer, reports []domain.SLAReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range reports {
		if err := cw.Write(Row(&reports[i])); err != nil {
			return fmt.Errorf("write row %s: %w", reports[i].IssueKey, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row flattens a report into CSV fields in Columns order.
func Row(r *domain.SLAReport) []string {
	d := r.Durations
	return []string{
		r.IssueKey,
		r.Summary,
		r.IssueType,
		r.Status,
		r.ProjectName,
		r.ProjectType,
		deref(r.Priority),
		deref(r.Resolution),
		r.Assignee,
		r.Reporter,
		r.Creator,
		r.Created,
		r.Updated,
		deref(r.Resolved),
		strings.Join(r.Components, ", "),
		r.SourceDetection,
		r.InvestigationType,
		itoa(d.OpenMinutes),
		itoa(d.WorkInProgressMinutes),
		itoa(d.InReviewMinutes),
		itoa(d.CompletedMinutes),
		itoa(d.CancelledMinutes),
		itoa(d.ClosedMinutes),
		itoa(d.TimeToResolutionMinutes),
		string(r.Verdict.Status),
		itoa(r.Verdict.BreachMinutes),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
