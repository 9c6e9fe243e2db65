package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
)

// mockEnrichService is a canned EnrichService.
type mockEnrichService struct {
	result   *domain.EnrichResult
	err      error
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
	return domain.HealthStatus{}
}

// mockCaptureService is a canned CaptureService.
type mockCaptureService struct {
	run       *domain.CaptureRun
	err       error
	gotModels []string
	gotOpts   driving.CaptureOptions
}

func (m *mockCaptureService) Capture(_ context.Context, query string, models []string, opts driving.CaptureOptions) (*domain.CaptureRun, error) {
	m.gotModels = models
	m.gotOpts = opts
	if m.run != nil {
		m.run.Query = query
	}
	return m.run, m.err
}

func sampleEnrichResult() *domain.EnrichResult {
	return &domain.EnrichResult{
		RequestID:      "req-1",
		Query:          "superintendent at pebblebeach.com",
		Model:          "openai/gpt-4.1",
		ProcessingTime: 1500 * time.Millisecond,
		Structured:     true,
		Results: &domain.LeadResults{
			Business: domain.Business{
				Name:       "Pebble Beach Golf Links",
				WebsiteURL: "https://pebblebeach.com",
			},
			Contacts: []domain.Contact{
				{Name: "Chris Dalhamer", Title: "Director of Agronomy", Email: "chris@pebblebeach.com", EmailType: domain.EmailDirect},
			},
			ContactsFound:    1,
			SearchConfidence: domain.ConfidenceHigh,
		},
	}
}
