package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

func newTestServer(t *testing.T, enrich *mockEnrichService, analysis *mockAnalysisService) *Server {
	t.Helper()
	ports := &Ports{Enrich: enrich}
	if analysis != nil {
		ports.Analysis = analysis
	}
	s, err := NewServer(ports, "1.2.3")
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestNewServer(t *testing.T) {
	_, err := NewServer(&Ports{}, "1.0")
	assert.ErrorIs(t, err, ErrMissingEnrichService)

	_, err = NewServer(nil, "1.0")
	assert.ErrorIs(t, err, ErrMissingEnrichService)

	s, err := NewServer(&Ports{Enrich: &mockEnrichService{}}, "")
	require.NoError(t, err)
	assert.Equal(t, "dev", s.version)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, &mockEnrichService{}, nil)

	rec, body := do(t, s, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1.2.3", body["version"])
	assert.Contains(t, body["endpoints"], "enrich")
	assert.Len(t, body["example_queries"], 4)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		health domain.HealthStatus
		code   int
	}{
		{"healthy", domain.HealthStatus{Status: "healthy"}, http.StatusOK},
		{"degraded", domain.HealthStatus{Status: "degraded", Services: map[string]string{"exa_api": "missing"}}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &mockEnrichService{health: tt.health}, nil)

			rec, body := do(t, s, http.MethodGet, "/health", "")

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.health.Status, body["status"])
		})
	}

	t.Run("panic becomes error", func(t *testing.T) {
		s := newTestServer(t, &mockEnrichService{panics: true}, nil)

		rec, body := do(t, s, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "health check exploded", body["error"])
	})
}

func TestEnrich(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		enrich := &mockEnrichService{result: &domain.EnrichResult{
			RequestID:      "req-1",
			Query:          "superintendent at deadhorselake.com",
			Model:          "anthropic/claude-sonnet-4",
			ProcessingTime: 1500 * time.Millisecond,
			Results: &domain.LeadResults{
				Business:      domain.Business{Name: "Dead Horse Lake Golf Course"},
				ContactsFound: 1,
			},
		}}
		s := newTestServer(t, enrich, nil)

		rec, body := do(t, s, http.MethodPost, "/enrich", `{"query": "superintendent at deadhorselake.com"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "req-1", body["request_id"])
		assert.Equal(t, "success", body["status"])
		assert.InDelta(t, 1.5, body["processing_time"], 1e-9)
		results, ok := body["results"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 1, results["contacts_found"])
		assert.Empty(t, enrich.gotModel)
	})

	t.Run("model override", func(t *testing.T) {
		enrich := &mockEnrichService{result: &domain.EnrichResult{RequestID: "r"}}
		s := newTestServer(t, enrich, nil)

		rec, _ := do(t, s, http.MethodPost, "/enrich", `{"query": "q", "model": "kimi_k2"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "kimi_k2", enrich.gotModel)
	})

	badRequests := map[string]string{
		"missing query": `{"q": "x"}`,
		"invalid json":  `{"query": `,
		"empty body":    ``,
	}
	for name, payload := range badRequests {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, &mockEnrichService{}, nil)

			rec, body := do(t, s, http.MethodPost, "/enrich", payload)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid request", body["error"])
			assert.NotEmpty(t, body["detail"])
		})
	}

	t.Run("blank query rejected by service", func(t *testing.T) {
		enrich := &mockEnrichService{err: fmt.Errorf("%w: query is required", domain.ErrInvalidInput)}
		s := newTestServer(t, enrich, nil)

		rec, body := do(t, s, http.MethodPost, "/enrich", `{"query": "  "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["detail"], "query is required")
	})

	t.Run("unknown model", func(t *testing.T) {
		enrich := &mockEnrichService{err: fmt.Errorf("%w: %q", domain.ErrUnknownModel, "gpt5")}
		s := newTestServer(t, enrich, nil)

		rec, body := do(t, s, http.MethodPost, "/enrich", `{"query": "q", "model": "gpt5"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["detail"], "unknown model")
	})

	t.Run("upstream failure", func(t *testing.T) {
		enrich := &mockEnrichService{err: fmt.Errorf("%w: openrouter: status 502", domain.ErrUpstream)}
		s := newTestServer(t, enrich, nil)

		rec, body := do(t, s, http.MethodPost, "/enrich", `{"query": "owner of joes-plumbing.com"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "owner of joes-plumbing.com", body["query"])
		assert.NotEmpty(t, body["request_id"])
		assert.Contains(t, body["error"], "status 502")
	})

	t.Run("GET not allowed", func(t *testing.T) {
		s := newTestServer(t, &mockEnrichService{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/enrich", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestTestEndpoint(t *testing.T) {
	s := newTestServer(t, &mockEnrichService{}, nil)
	s.now = func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) }

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec, body := do(t, s, method, "/test", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, method, body["method"])
		assert.Equal(t, "2025-08-01T12:00:00Z", body["timestamp"])
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, &mockEnrichService{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/enrich", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestExtract(t *testing.T) {
	analysis := &mockAnalysisService{
		extraction: &domain.ExtractionOutput{
			Candidates: []domain.Contact{{Name: "Joe Parker", Title: "Superintendent"}},
		},
		match: &domain.MatchResult{
			Accuracy:         1.0 / 6,
			BenchmarkMatches: []string{"Joe Parker"},
			BenchmarkMissed:  []string{"Travis Hopkins"},
		},
		score: 21.67,
	}

	t.Run("extracts and scores", func(t *testing.T) {
		s := newTestServer(t, &mockEnrichService{}, analysis)

		rec, body := do(t, s, http.MethodPost, "/extract",
			`{"model_id": "claude_sonnet_4", "text": "1. Joe Parker - Superintendent"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "claude_sonnet_4", body["model_id"])
		assert.Len(t, body["candidates"], 1)
		assert.InDelta(t, 21.67, body["score"], 1e-9)
		assert.Equal(t, []any{"Joe Parker"}, body["benchmark_matches"])
	})

	t.Run("missing text", func(t *testing.T) {
		s := newTestServer(t, &mockEnrichService{}, analysis)

		rec, body := do(t, s, http.MethodPost, "/extract", `{"model_id": "x"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing 'text' field", body["detail"])
	})

	t.Run("no analysis service", func(t *testing.T) {
		s := newTestServer(t, &mockEnrichService{}, nil)

		rec, _ := do(t, s, http.MethodPost, "/extract", `{"text": "x"}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("blank text rejected by service", func(t *testing.T) {
		analysis := &mockAnalysisService{err: fmt.Errorf("%w: transcript text is empty", domain.ErrInvalidInput)}
		s := newTestServer(t, &mockEnrichService{}, analysis)

		rec, body := do(t, s, http.MethodPost, "/extract", `{"model_id": "x", "text": "   "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request", body["error"])
		assert.Contains(t, body["detail"], "transcript text is empty")
	})

	t.Run("extraction failure", func(t *testing.T) {
		s := newTestServer(t, &mockEnrichService{}, &mockAnalysisService{err: errors.New("boom")})

		rec, body := do(t, s, http.MethodPost, "/extract", `{"text": "x"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "boom", body["error"])
	})
}

func TestRankings(t *testing.T) {
	t.Run("latest run", func(t *testing.T) {
		analysis := &mockAnalysisService{report: &domain.AnalysisReport{
			RunID:    "run-9",
			Rankings: []domain.RankingEntry{{Model: "gemini_pro", Score: 90}},
		}}
		s := newTestServer(t, &mockEnrichService{}, analysis)

		rec, body := do(t, s, http.MethodGet, "/rankings", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "run-9", body["run_id"])
		assert.Len(t, body["rankings"], 1)
	})

	t.Run("no runs", func(t *testing.T) {
		s := newTestServer(t, &mockEnrichService{}, &mockAnalysisService{err: domain.ErrNotFound})

		rec, body := do(t, s, http.MethodGet, "/rankings", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "error", body["status"])
	})
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, &mockEnrichService{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
