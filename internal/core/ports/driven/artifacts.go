package driven

import "context"

// Artifact file names written next to the transcripts.
const (
	ArtifactAnalysisResults = "analysis_results.json"
	ArtifactModelRankings   = "model_rankings.json"
	ArtifactAllExtracted    = "all_models_extracted.json"
	ArtifactCaptureSummary  = "test_summary.json"
)

// ArtifactWriter writes JSON artifacts for other tools to consume.
type ArtifactWriter interface {
	// WriteJSON encodes v with two-space indentation to name.
	WriteJSON(ctx context.Context, name string, v any) error

	// ReadJSON decodes name into v.
	// Returns domain.ErrNotFound if the artifact does not exist.
	ReadJSON(ctx context.Context, name string, v any) error

	// Dir returns the directory artifacts are written to.
	Dir() string
}
