package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// maxBodyBytes bounds request bodies; transcripts can be large.
const maxBodyBytes = 8 << 20

// EnrichRequest is the body of POST /enrich.
type EnrichRequest struct {
	Query *string `json:"query"`
	Model string  `json:"model,omitempty"`
}

// EnrichResponse is the success body of POST /enrich.
type EnrichResponse struct {
	RequestID      string              `json:"request_id"`
	Query          string              `json:"query"`
	Status         string              `json:"status"`
	Model          string              `json:"model,omitempty"`
	ProcessingTime float64             `json:"processing_time"`
	Results        *domain.LeadResults `json:"results,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	ModelID string `json:"model_id"`
	Text    string `json:"text"`
}

// ExtractResponse is the body returned by POST /extract.
type ExtractResponse struct {
	*domain.ExtractionOutput
	Score            float64  `json:"score"`
	Accuracy         float64  `json:"accuracy"`
	BenchmarkMatches []string `json:"benchmark_matches"`
	BenchmarkMissed  []string `json:"benchmark_missed"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "leadbench",
		"version":     s.version,
		"description": "Contact enrichment for business domains and benchmark scoring of model transcripts",
		"endpoints": map[string]any{
			"enrich": map[string]any{
				"path":            "/enrich",
				"method":          http.MethodPost,
				"description":     "Enrich business domain with contact information",
				"example_request": map[string]string{"query": "superintendent at pebblebeach.com"},
			},
			"health": map[string]any{
				"path":        "/health",
				"method":      http.MethodGet,
				"description": "Check API health and service status",
			},
			"extract": map[string]any{
				"path":        "/extract",
				"method":      http.MethodPost,
				"description": "Extract and score contacts from a model transcript",
			},
			"rankings": map[string]any{
				"path":        "/rankings",
				"method":      http.MethodGet,
				"description": "Model ranking from the latest analysis run",
			},
		},
		"example_queries": []string{
			"superintendent at pebblebeach.com",
			"general manager at olivegarden.com in San Antonio",
			"owner of joes-plumbing.com",
			"head chef at frenchlaundry.com",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.ports.Enrich.Health(r.Context())
	status := http.StatusOK
	if !health.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req EnrichRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Query == nil {
		writeBadRequest(w, "Missing 'query' field")
		return
	}
	query := *req.Query

	start := s.now()
	var (
		result *domain.EnrichResult
		err    error
	)
	if req.Model != "" {
		result, err = s.ports.Enrich.EnrichWithModel(r.Context(), query, req.Model)
	} else {
		result, err = s.ports.Enrich.Enrich(r.Context(), query)
	}
	elapsed := s.now().Sub(start)

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownModel):
		writeBadRequest(w, err.Error())
		return
	case err != nil:
		requestID := uuid.NewString()
		logger.Error("enrich %s failed: %v", requestID, err)
		writeJSON(w, http.StatusInternalServerError, EnrichResponse{
			RequestID:      requestID,
			Query:          query,
			Status:         "error",
			ProcessingTime: elapsed.Seconds(),
			Error:          err.Error(),
		})
		return
	}

	processing := result.ProcessingTime
	if processing == 0 {
		processing = elapsed
	}
	logger.Info("enrich %s completed in %s", result.RequestID, processing.Round(10*time.Millisecond))
	writeJSON(w, http.StatusOK, EnrichResponse{
		RequestID:      result.RequestID,
		Query:          result.Query,
		Status:         "success",
		Model:          result.Model,
		ProcessingTime: processing.Seconds(),
		Results:        result.Results,
	})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "Test endpoint working",
		"timestamp": s.now().Format(time.RFC3339Nano),
		"method":    r.Method,
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if s.ports.Analysis == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis service not configured")
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Text == "" {
		writeBadRequest(w, "Missing 'text' field")
		return
	}

	out, err := s.ports.Analysis.ExtractTranscript(r.Context(), req.ModelID, req.Text)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeBadRequest(w, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	match, score, err := s.ports.Analysis.Score(r.Context(), req.ModelID, out.Candidates)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("scoring: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		ExtractionOutput: out,
		Score:            score,
		Accuracy:         match.Accuracy,
		BenchmarkMatches: match.BenchmarkMatches,
		BenchmarkMissed:  match.BenchmarkMissed,
	})
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	if s.ports.Analysis == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis service not configured")
		return
	}

	report, err := s.ports.Analysis.LatestRun(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no analysis runs recorded")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":     report.RunID,
		"started_at": report.StartedAt,
		"rankings":   report.Rankings,
	})
}
