package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

func newTestServer(t *testing.T, analysis *mockAnalysisService, enrich *mockEnrichService) *Server {
	t.Helper()
	ports := &Ports{Analysis: analysis}
	if enrich != nil {
		ports.Enrich = enrich
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("returns candidates and record", func(t *testing.T) {
		analysis := &mockAnalysisService{
			extraction: &domain.ExtractionOutput{
				Candidates: []domain.Contact{
					{Name: "Joe Parker", Title: "Superintendent", Email: "jparker@deadhorselake.com"},
				},
				Structured: &domain.LeadResults{ContactsFound: 1},
			},
		}
		server := newTestServer(t, analysis, nil)

		_, output, err := server.handleExtract(ctx, nil, ExtractInput{ModelID: "claude_sonnet_4", Text: "..."})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, []ContactOutput{{Name: "Joe Parker", Title: "Superintendent"}}, output.Contacts)
		require.NotNil(t, output.Structured)
		assert.Equal(t, 1, output.Structured.ContactsFound)
	})

	t.Run("empty candidates is an empty list", func(t *testing.T) {
		analysis := &mockAnalysisService{extraction: &domain.ExtractionOutput{}}
		server := newTestServer(t, analysis, nil)

		_, output, err := server.handleExtract(ctx, nil, ExtractInput{Text: "nothing"})

		require.NoError(t, err)
		assert.NotNil(t, output.Contacts)
		assert.Zero(t, output.Count)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server := newTestServer(t, &mockAnalysisService{err: errors.New("boom")}, nil)

		_, _, err := server.handleExtract(ctx, nil, ExtractInput{Text: "x"})
		assert.EqualError(t, err, "boom")
	})
}

func TestServer_handleScore(t *testing.T) {
	ctx := context.Background()

	analysis := &mockAnalysisService{
		match: &domain.MatchResult{
			Accuracy:         0.5,
			BenchmarkMatches: []string{"Travis Hopkins"},
			BenchmarkMissed:  []string{"Joe Parker"},
			ExtraContacts:    []domain.Contact{{Name: "Jane Doe", Title: "Manager"}},
		},
		score: 64,
	}
	server := newTestServer(t, analysis, nil)

	_, output, err := server.handleScore(ctx, nil, ScoreInput{
		Contacts: []ContactOutput{
			{Name: " Travis Hopkins ", Title: "Owner"},
			{Name: "  "},
			{Name: "Jane Doe", Title: "Manager"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.Contact{
		{Name: "Travis Hopkins", Title: "Owner"},
		{Name: "Jane Doe", Title: "Manager"},
	}, analysis.gotCandidates)
	assert.InDelta(t, 64.0, output.Score, 1e-9)
	assert.InDelta(t, 0.5, output.Accuracy, 1e-9)
	assert.Equal(t, []string{"Travis Hopkins"}, output.BenchmarkMatches)
	assert.Equal(t, []string{"Joe Parker"}, output.BenchmarkMissed)
	assert.Equal(t, []ContactOutput{{Name: "Jane Doe", Title: "Manager"}}, output.ExtraContacts)
}

func TestServer_handleAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("passes options and returns rankings", func(t *testing.T) {
		analysis := &mockAnalysisService{
			report: &domain.AnalysisReport{
				RunID:    "run-1",
				Rankings: []domain.RankingEntry{{Model: "claude_sonnet_4", Score: 100}},
				Failures: map[string]string{"qwen3": "transcript read failed"},
			},
		}
		server := newTestServer(t, analysis, nil)

		_, output, err := server.handleAnalyze(ctx, nil, AnalyzeInput{Concurrency: 4, SkipStore: true})

		require.NoError(t, err)
		assert.Equal(t, domain.AnalysisOptions{Concurrency: 4, SkipStore: true}, analysis.gotOpts)
		assert.Equal(t, "run-1", output.RunID)
		require.Len(t, output.Rankings, 1)
		assert.Equal(t, "claude_sonnet_4", output.Rankings[0].Model)
		assert.Contains(t, output.Failures, "qwen3")
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server := newTestServer(t, &mockAnalysisService{err: domain.ErrNotFound}, nil)

		_, _, err := server.handleAnalyze(ctx, nil, AnalyzeInput{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleEnrich(t *testing.T) {
	ctx := context.Background()
	result := &domain.EnrichResult{
		RequestID:  "req-1",
		Model:      "anthropic/claude-sonnet-4",
		Structured: true,
		Results:    &domain.LeadResults{ContactsFound: 2},
	}

	t.Run("default model", func(t *testing.T) {
		enrich := &mockEnrichService{result: result}
		server := newTestServer(t, &mockAnalysisService{}, enrich)

		_, output, err := server.handleEnrich(ctx, nil, EnrichInput{Query: "superintendent at deadhorselake.com"})

		require.NoError(t, err)
		assert.Empty(t, enrich.gotModel)
		assert.Equal(t, "req-1", output.RequestID)
		assert.True(t, output.Structured)
		assert.Equal(t, 2, output.Results.ContactsFound)
	})

	t.Run("explicit model", func(t *testing.T) {
		enrich := &mockEnrichService{result: result}
		server := newTestServer(t, &mockAnalysisService{}, enrich)

		_, _, err := server.handleEnrich(ctx, nil, EnrichInput{Query: "q", Model: "kimi_k2"})

		require.NoError(t, err)
		assert.Equal(t, "kimi_k2", enrich.gotModel)
	})

	t.Run("no enrich service", func(t *testing.T) {
		server := newTestServer(t, &mockAnalysisService{}, nil)

		_, _, err := server.handleEnrich(ctx, nil, EnrichInput{Query: "q"})
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("upstream failure", func(t *testing.T) {
		enrich := &mockEnrichService{err: domain.ErrUpstream}
		server := newTestServer(t, &mockAnalysisService{}, enrich)

		_, _, err := server.handleEnrich(ctx, nil, EnrichInput{Query: "q"})
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}
