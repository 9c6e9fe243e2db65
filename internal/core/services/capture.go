package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// Ensure CaptureService implements the interface.
var _ driving.CaptureService = (*CaptureService)(nil)

// Capture defaults.
const (
	DefaultCaptureTimeout = 300 * time.Second
	DefaultCapturePause   = 2 * time.Second
)

// CaptureService runs a query against several models and stores the replies
// as transcripts for the analysis pipeline.
type CaptureService struct {
	enrich      driving.EnrichService
	transcripts driven.TranscriptStore
	artifacts   driven.ArtifactWriter
	models      *ModelTable
	timeout     time.Duration
	pause       time.Duration
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewCaptureService creates a capture service.
// The artifacts parameter is optional (can be nil).
func NewCaptureService(
	enrich driving.EnrichService,
	transcripts driven.TranscriptStore,
	artifacts driven.ArtifactWriter,
	models *ModelTable,
) *CaptureService {
	if models == nil {
		models = NewModelTable(nil, nil)
	}
	return &CaptureService{
		enrich:      enrich,
		transcripts: transcripts,
		artifacts:   artifacts,
		models:      models,
		timeout:     DefaultCaptureTimeout,
		pause:       DefaultCapturePause,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// SetDefaults replaces the timeout and pause used when a Capture call leaves
// them zero. Zero arguments keep the current values.
func (s *CaptureService) SetDefaults(timeout, pause time.Duration) {
	if timeout > 0 {
		s.timeout = timeout
	}
	if pause != 0 {
		s.pause = pause
	}
}

// Capture runs query against every model in order and records the outcome
// of each. A failing model never stops the session.
func (s *CaptureService) Capture(
	ctx context.Context, query string, models []string, opts driving.CaptureOptions,
) (*domain.CaptureRun, error) {
	logger.Section("Capture")

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if len(models) == 0 {
		models = s.models.Aliases()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.timeout
	}
	pause := opts.Pause
	if pause == 0 {
		pause = s.pause
	}

	run := &domain.CaptureRun{
		TestDate: s.now(),
		Query:    query,
		Models:   make(map[string]domain.CaptureModelResult, len(models)),
	}

	for i, model := range models {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		logger.Info("Capturing %s (%d/%d)", model, i+1, len(models))
		run.Models[model] = s.captureOne(ctx, query, model, timeout)

		if i < len(models)-1 && pause > 0 {
			if err := s.sleep(ctx, pause); err != nil {
				return run, err
			}
		}
	}

	if s.artifacts != nil {
		if err := s.artifacts.WriteJSON(ctx, driven.ArtifactCaptureSummary, run); err != nil {
			return run, fmt.Errorf("write %s: %w", driven.ArtifactCaptureSummary, err)
		}
	}
	return run, nil
}

func (s *CaptureService) captureOne(ctx context.Context, query, model string, timeout time.Duration) domain.CaptureModelResult {
	start := s.now()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.enrich.EnrichWithModel(runCtx, query, model)
	duration := s.now().Sub(start).Seconds()

	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded)) {
		return domain.CaptureModelResult{
			Status:          domain.CaptureTimeout,
			DurationSeconds: timeout.Seconds(),
			Error:           fmt.Sprintf("model run timed out after %s", timeout),
		}
	}
	if err != nil {
		logger.Warn("Capture %s failed: %v", model, err)
		return domain.CaptureModelResult{
			Status:          domain.CaptureError,
			DurationSeconds: duration,
			Error:           err.Error(),
		}
	}

	transcript := &domain.Transcript{ModelID: model, Text: result.Raw, CapturedAt: s.now()}
	if err := s.transcripts.Write(ctx, transcript); err != nil {
		return domain.CaptureModelResult{
			Status:          domain.CaptureError,
			DurationSeconds: duration,
			Error:           fmt.Sprintf("save transcript: %v", err),
		}
	}

	out := domain.CaptureModelResult{
		Status:          domain.CaptureSuccess,
		DurationSeconds: duration,
		OutputFile:      transcript.Path,
	}
	if obj, ok := FindJSONObject(result.Raw); ok && s.artifacts != nil {
		name := model + "_output.json"
		if err := s.artifacts.WriteJSON(ctx, name, obj); err != nil {
			logger.Warn("Failed to write %s: %v", name, err)
		} else {
			out.JSONFound = true
			out.JSONFile = name
		}
	}
	return out
}

// FindJSONObject returns the first JSON object in text that begins on its
// own line. When the rest of the text does not parse, the end is pulled
// back one "}" line at a time until it does.
func FindJSONObject(text string) (map[string]any, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "{") {
			continue
		}
		if obj, ok := decodeObject(strings.Join(lines[i:], "\n")); ok {
			return obj, true
		}
		for j := len(lines) - 1; j >= i; j-- {
			if !strings.HasSuffix(strings.TrimSpace(lines[j]), "}") {
				continue
			}
			if obj, ok := decodeObject(strings.Join(lines[i:j+1], "\n")); ok {
				return obj, true
			}
		}
	}
	return nil, false
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
