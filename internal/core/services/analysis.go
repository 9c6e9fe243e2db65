package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
	"github.com/custodia-labs/leadbench/internal/extraction"
	"github.com/custodia-labs/leadbench/internal/logger"
	"github.com/custodia-labs/leadbench/internal/scoring"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// ExtractedDir is the artifact subdirectory for per-model structured records.
const ExtractedDir = "extracted_json"

// AnalysisService runs the extract, reconcile, rank pipeline over stored
// transcripts.
type AnalysisService struct {
	transcripts driven.TranscriptStore
	extractor   *extraction.Extractor
	structured  *extraction.StructuredExtractor
	benchmark   *domain.Benchmark
	weights     scoring.Weights
	results     driven.ResultStore
	artifacts   driven.ArtifactWriter
	now         func() time.Time
}

// NewAnalysisService creates an analysis service.
// The results and artifacts parameters are optional (can be nil).
func NewAnalysisService(
	transcripts driven.TranscriptStore,
	extractor *extraction.Extractor,
	structured *extraction.StructuredExtractor,
	benchmark *domain.Benchmark,
	results driven.ResultStore,
	artifacts driven.ArtifactWriter,
) *AnalysisService {
	return &AnalysisService{
		transcripts: transcripts,
		extractor:   extractor,
		structured:  structured,
		benchmark:   benchmark,
		weights:     scoring.DefaultWeights(),
		results:     results,
		artifacts:   artifacts,
		now:         time.Now,
	}
}

// SetWeights overrides the default scoring weights.
func (s *AnalysisService) SetWeights(w scoring.Weights) {
	s.weights = w
}

// Analyze extracts, reconciles, and ranks every stored transcript.
func (s *AnalysisService) Analyze(ctx context.Context, opts domain.AnalysisOptions) (*domain.AnalysisReport, error) {
	logger.Section("Analysis")

	models, err := s.transcripts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	logger.Debug("Found %d transcripts in %s", len(models), s.transcripts.Dir())

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	results := make([]domain.MatchResult, len(models))
	failures := make([]error, len(models))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, model := range models {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := s.transcripts.Read(gctx, model)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = s.analyzeOne(model, t.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.AnalysisReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Order:     []string{},
		Results:   make(map[string]domain.MatchResult, len(models)),
		Failures:  make(map[string]string),
	}
	ordered := make([]domain.MatchResult, 0, len(models))
	for i, model := range models {
		if failures[i] != nil {
			logger.L().Warn("transcript skipped", zap.String("model", model), zap.Error(failures[i]))
			report.Failures[model] = failures[i].Error()
			continue
		}
		report.Order = append(report.Order, model)
		report.Results[model] = results[i]
		ordered = append(ordered, results[i])
	}
	report.Rankings = scoring.Rank(ordered, s.weights)

	if !opts.SkipStore && s.results != nil {
		if err := s.results.SaveRun(ctx, report); err != nil {
			logger.Warn("Failed to save run %s: %v", report.RunID, err)
		}
	}

	if !opts.SkipArtifacts && s.artifacts != nil {
		if err := s.writeReport(ctx, report); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (s *AnalysisService) analyzeOne(model, text string) domain.MatchResult {
	candidates := s.extractor.ExtractCandidates(text, model)
	result := scoring.Reconcile(model, candidates, s.benchmark)
	logger.L().Debug("reconciled",
		zap.String("model", model),
		zap.Int("candidates", result.ContactsFound),
		zap.Int("matches", len(result.BenchmarkMatches)),
		zap.Float64("accuracy", result.Accuracy))
	return result
}

func (s *AnalysisService) writeReport(ctx context.Context, report *domain.AnalysisReport) error {
	if err := s.artifacts.WriteJSON(ctx, driven.ArtifactAnalysisResults, report.Results); err != nil {
		return fmt.Errorf("write %s: %w", driven.ArtifactAnalysisResults, err)
	}
	if err := s.artifacts.WriteJSON(ctx, driven.ArtifactModelRankings, report.Rankings); err != nil {
		return fmt.Errorf("write %s: %w", driven.ArtifactModelRankings, err)
	}
	return nil
}

// ExtractTranscript runs candidate and structured extraction on text.
func (s *AnalysisService) ExtractTranscript(_ context.Context, modelID, text string) (*domain.ExtractionOutput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: transcript text is empty", domain.ErrInvalidInput)
	}
	out := &domain.ExtractionOutput{
		ModelID:    modelID,
		Candidates: s.extractor.ExtractCandidates(text, modelID),
	}
	if record, ok := s.structured.Extract(text); ok {
		out.Structured = record
	}
	return out, nil
}

// ExtractStructured recovers a full record from every stored transcript.
// Transcripts without a record are skipped.
func (s *AnalysisService) ExtractStructured(ctx context.Context) (map[string]*domain.LeadResults, error) {
	logger.Section("Structured Extraction")

	models, err := s.transcripts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	records := make(map[string]*domain.LeadResults, len(models))
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := s.transcripts.Read(ctx, model)
		if err != nil {
			logger.Warn("Skipping %s: %v", model, err)
			continue
		}
		record, tier := s.structured.Recover(t.Text)
		if tier == extraction.TierNone {
			logger.Debug("%s: no structured record", model)
			continue
		}
		logger.Debug("%s: %d contacts via %s", model, len(record.Contacts), tier)
		records[model] = record

		if s.artifacts != nil {
			name := filepath.Join(ExtractedDir, model+".json")
			if err := s.artifacts.WriteJSON(ctx, name, record); err != nil {
				return records, fmt.Errorf("write %s: %w", name, err)
			}
		}
	}

	if s.artifacts != nil && len(records) > 0 {
		name := filepath.Join(ExtractedDir, driven.ArtifactAllExtracted)
		if err := s.artifacts.WriteJSON(ctx, name, records); err != nil {
			return records, fmt.Errorf("write %s: %w", name, err)
		}
	}
	return records, nil
}

// Score reconciles a candidate list against the benchmark.
func (s *AnalysisService) Score(_ context.Context, modelID string, candidates []domain.Contact) (*domain.MatchResult, float64, error) {
	for _, c := range candidates {
		if strings.TrimSpace(c.Name) == "" {
			return nil, 0, fmt.Errorf("%w: candidate with empty name", domain.ErrInvalidInput)
		}
	}
	result := scoring.Reconcile(modelID, candidates, s.benchmark)
	return &result, scoring.Score(result, s.weights), nil
}

// LatestRun returns the most recent stored report.
func (s *AnalysisService) LatestRun(ctx context.Context) (*domain.AnalysisReport, error) {
	if s.results == nil {
		return nil, errHistoryDisabled
	}
	return s.results.LatestRun(ctx)
}

// ListRuns returns stored run summaries, most recent first.
func (s *AnalysisService) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if s.results == nil {
		return nil, errHistoryDisabled
	}
	return s.results.ListRuns(ctx, limit)
}

var errHistoryDisabled = fmt.Errorf("%w: run history is disabled", domain.ErrNotFound)

// IsHistoryDisabled reports whether err came from a service without a result store.
func IsHistoryDisabled(err error) bool {
	return errors.Is(err, errHistoryDisabled)
}
