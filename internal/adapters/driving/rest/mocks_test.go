package rest

import (
	"context"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

type mockEnrichService struct {
	result   *domain.EnrichResult
	err      error
	health   domain.HealthStatus
	panics   bool
	gotQuery string
	gotModel string
}

func (m *mockEnrichService) Enrich(ctx context.Context, query string) (*domain.EnrichResult, error) {
	return m.EnrichWithModel(ctx, query, "")
}

func (m *mockEnrichService) EnrichWithModel(_ context.Context, query, model string) (*domain.EnrichResult, error) {
	m.gotQuery = query
	m.gotModel = model
	return m.result, m.err
}

func (m *mockEnrichService) Health(_ context.Context) domain.HealthStatus {
	if m.panics {
		panic("health check exploded")
	}
	return m.health
}

type mockAnalysisService struct {
	extraction *domain.ExtractionOutput
	match      *domain.MatchResult
	score      float64
	report     *domain.AnalysisReport
	err        error
}

func (m *mockAnalysisService) Analyze(_ context.Context, _ domain.AnalysisOptions) (*domain.AnalysisReport, error) {
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

func (m *mockAnalysisService) Score(_ context.Context, _ string, _ []domain.Contact) (*domain.MatchResult, float64, error) {
	return m.match, m.score, m.err
}

func (m *mockAnalysisService) LatestRun(_ context.Context) (*domain.AnalysisReport, error) {
	return m.report, m.err
}

func (m *mockAnalysisService) ListRuns(_ context.Context, _ int) ([]domain.RunSummary, error) {
	return nil, m.err
}
