package driving

import (
	"context"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// AnalysisService scores stored model transcripts against the benchmark.
type AnalysisService interface {
	// Analyze extracts, reconciles, and ranks every stored transcript.
	// A transcript that cannot be read is reported in the report's
	// Failures and does not stop the run.
	Analyze(ctx context.Context, opts domain.AnalysisOptions) (*domain.AnalysisReport, error)

	// ExtractTranscript runs candidate and structured extraction on text.
	ExtractTranscript(ctx context.Context, modelID, text string) (*domain.ExtractionOutput, error)

	// ExtractStructured runs structured extraction over every stored
	// transcript and writes one JSON file per success plus a combined file.
	// It returns the records keyed by model id.
	ExtractStructured(ctx context.Context) (map[string]*domain.LeadResults, error)

	// Score reconciles a candidate list against the benchmark.
	Score(ctx context.Context, modelID string, candidates []domain.Contact) (*domain.MatchResult, float64, error)

	// LatestRun returns the most recent stored report.
	LatestRun(ctx context.Context) (*domain.AnalysisReport, error)

	// ListRuns returns stored run summaries, most recent first.
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}
