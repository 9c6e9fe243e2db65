package driven

import (
	"context"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// ResultStore persists analysis runs so rankings can be compared over time.
type ResultStore interface {
	// SaveRun stores a completed analysis report.
	SaveRun(ctx context.Context, report *domain.AnalysisReport) error

	// GetRun returns a full report by id.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, id string) (*domain.AnalysisReport, error)

	// LatestRun returns the most recent report.
	// Returns domain.ErrNotFound if no run has been stored.
	LatestRun(ctx context.Context) (*domain.AnalysisReport, error)

	// ListRuns returns summaries ordered by start time, most recent first.
	// A limit of zero or less returns all runs.
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Close releases resources.
	Close() error
}
