package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

func TestEnrichCmd_Args(t *testing.T) {
	assert.Error(t, enrichCmd.Args(enrichCmd, nil))
	assert.NoError(t, enrichCmd.Args(enrichCmd, []string{"query"}))
	assert.Equal(t, "m", enrichCmd.Flags().Lookup("model").Shorthand)
}

func TestEnrichCmd_PrintsRecord(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	enrich := &mockEnrichService{result: sampleEnrichResult()}
	SetServices(&Services{Analysis: env.analysis, Enrich: enrich})

	out, err := execute(t, "enrich", "superintendent at pebblebeach.com", "--model", "claude")

	require.NoError(t, err)
	assert.Equal(t, "superintendent at pebblebeach.com", enrich.gotQuery)
	assert.Equal(t, "claude", enrich.gotModel)
	assert.Contains(t, out, "Query: superintendent at pebblebeach.com")
	assert.Contains(t, out, "Model openai/gpt-4.1, 1.5s, request req-1")
	assert.Contains(t, out, "Business: Pebble Beach Golf Links")
	assert.Contains(t, out, "  Website: https://pebblebeach.com")
	assert.Contains(t, out, "Contacts (1, confidence HIGH):")
	assert.Contains(t, out, "  - Chris Dalhamer, Director of Agronomy")
	assert.NotContains(t, out, "recovered from text")
}

func TestEnrichCmd_UnstructuredWarning(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	result := sampleEnrichResult()
	result.Structured = false
	SetServices(&Services{Enrich: &mockEnrichService{result: result}})

	out, err := execute(t, "enrich", "q")

	require.NoError(t, err)
	assert.Contains(t, out, "contacts were recovered from text")
}

func TestEnrichCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	SetServices(&Services{Enrich: &mockEnrichService{result: sampleEnrichResult()}})

	out, err := execute(t, "enrich", "q", "--json")

	require.NoError(t, err)
	var got domain.EnrichResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "Chris Dalhamer", got.Results.Contacts[0].Name)
}

func TestEnrichCmd_Errors(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	SetServices(nil)
	_, err := execute(t, "enrich", "q")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	SetServices(&Services{Enrich: &mockEnrichService{err: domain.ErrUnknownModel}})
	_, err = execute(t, "enrich", "q", "--model", "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownModel)
	assert.Contains(t, err.Error(), "enrichment failed")
}

func TestCaptureCmd_PrintsSummary(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	capture := &mockCaptureService{run: &domain.CaptureRun{
		TestDate: time.Now(),
		Models: map[string]domain.CaptureModelResult{
			"qwen3":           {Status: domain.CaptureSuccess, DurationSeconds: 12.3, JSONFound: true},
			"claude_sonnet_4": {Status: domain.CaptureSuccess, DurationSeconds: 8},
			"kimi_k2":         {Status: domain.CaptureTimeout, DurationSeconds: 300, Error: "deadline exceeded"},
		},
	}}
	SetServices(&Services{Capture: capture})

	out, err := execute(t, "capture", "q", "--models", "qwen3,claude_sonnet_4,kimi_k2", "--timeout", "1m", "--pause=-1s")

	require.NoError(t, err)
	assert.Equal(t, []string{"qwen3", "claude_sonnet_4", "kimi_k2"}, capture.gotModels)
	assert.Equal(t, time.Minute, capture.gotOpts.Timeout)
	assert.Equal(t, -time.Second, capture.gotOpts.Pause)

	assert.Contains(t, out, "2/3 models succeeded.")
	assert.Contains(t, out, "deadline exceeded")
	assert.Less(t, strings.Index(out, "claude_sonnet_4"), strings.Index(out, "kimi_k2"))
	assert.Less(t, strings.Index(out, "kimi_k2"), strings.Index(out, "qwen3"))
}

func TestCaptureCmd_Errors(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	SetServices(nil)
	_, err := execute(t, "capture", "q")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	SetServices(&Services{Capture: &mockCaptureService{err: domain.ErrInvalidInput}})
	_, err = execute(t, "capture", "q")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	boom := errors.New("boom")
	SetServices(&Services{Capture: &mockCaptureService{
		run: &domain.CaptureRun{Models: map[string]domain.CaptureModelResult{
			"qwen3": {Status: domain.CaptureError, Error: "boom"},
		}},
		err: boom,
	}})
	out, err := execute(t, "capture", "q")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, out, "0/1 models succeeded.")
}
