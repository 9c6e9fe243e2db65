package mcp

import (
	"context"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	report     *domain.AnalysisReport
	extraction *domain.ExtractionOutput
	match      *domain.MatchResult
	score      float64
	runs       []domain.RunSummary
	err        error

	gotOpts       domain.AnalysisOptions
	gotCandidates []domain.Contact
	gotLimit      int
}

func (m *mockAnalysisService) Analyze(_ context.Context, opts domain.AnalysisOptions) (*domain.AnalysisReport, error) {
	m.gotOpts = opts
	return m.report, m.err
}

func (m *mockAnalysisService) ExtractTranscript(_ context.Context, modelID, _ string) (*domain.ExtractionOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := *m.extraction
	out.ModelID = modelID
	return &out, nil
}

func (m *mockAnalysisService) ExtractStructured(_ context.Context) (map[string]*domain.LeadResults, error) {
	return nil, m.err
}

func (m *mockAnalysisService) Score(
	_ context.Context,
	_ string,
	candidates []domain.Contact,
) (*domain.MatchResult, float64, error) {
	m.gotCandidates = candidates
	return m.match, m.score, m.err
}

func (m *mockAnalysisService) LatestRun(_ context.Context) (*domain.AnalysisReport, error) {
	return m.report, m.err
}

func (m *mockAnalysisService) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	m.gotLimit = limit
	return m.runs, m.err
}

// mockEnrichService is a mock implementation of driving.EnrichService.
type mockEnrichService struct {
	result   *domain.EnrichResult
	err      error
	gotModel string
}

func (m *mockEnrichService) Enrich(ctx context.Context, query string) (*domain.EnrichResult, error) {
	return m.EnrichWithModel(ctx, query, "")
}

func (m *mockEnrichService) EnrichWithModel(_ context.Context, _, model string) (*domain.EnrichResult, error) {
	m.gotModel = model
	return m.result, m.err
}

func (m *mockEnrichService) Health(_ context.Context) domain.HealthStatus {
	return domain.HealthStatus{Status: "healthy"}
}
