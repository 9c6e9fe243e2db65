package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

const structuredTranscript = "Here is the result:\n```json\n" +
	`{"business": {"name": "Dead Horse Lake Golf Course", "website_url": "https://deadhorselake.com"},` +
	` "contacts": [{"name": "Joe Parker", "title": "Superintendent"}],` +
	` "search_confidence": "high"}` +
	"\n```\n"

func TestModelFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"transcripts/claude_sonnet_4_output.txt", "claude_sonnet_4"},
		{"qwen3_output.txt", "qwen3"},
		{"/tmp/notes.txt", "notes"},
		{"_output.txt", "_output"},
		{"kimi_k2", "kimi_k2"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, modelFromPath(tt.path))
		})
	}
}

func TestExtractCmd_ModelFromFileName(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "extract", filepath.Join(env.dir, "claude_sonnet_4_output.txt"))

	require.NoError(t, err)
	assert.Contains(t, out, "=== CLAUDE_SONNET_4 ===")
	assert.Contains(t, out, "Benchmark matches: 2/6")
	assert.Contains(t, out, "Score: 43.3")
	assert.NotContains(t, out, "Business:")
}

func TestExtractCmd_ModelFlag(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	path := filepath.Join(env.dir, "reply.txt")
	require.NoError(t, os.WriteFile(path, []byte(claudeTranscript), 0o644))

	out, err := execute(t, "extract", path, "-m", "gpt_4_1")

	require.NoError(t, err)
	assert.Contains(t, out, "=== GPT_4_1 ===")
}

func TestExtractCmd_Structured(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	path := writeTranscript(t, env.dir, "gpt_4_1", structuredTranscript)

	out, err := execute(t, "extract", path, "--structured")

	require.NoError(t, err)
	assert.Contains(t, out, "Business: Dead Horse Lake Golf Course")
	assert.Contains(t, out, "  Website: https://deadhorselake.com")
	assert.Contains(t, out, "  - Joe Parker, Superintendent")
}

func TestExtractCmd_StructuredMissing(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "extract", filepath.Join(env.dir, "kimi_k2_output.txt"), "--structured")

	require.NoError(t, err)
	assert.Contains(t, out, "No structured record found.")
}

func TestExtractCmd_JSON(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "extract", filepath.Join(env.dir, "claude_sonnet_4_output.txt"), "--json")

	require.NoError(t, err)
	var got struct {
		ModelID    string             `json:"model_id"`
		Candidates []domain.Contact   `json:"candidates"`
		Score      float64            `json:"score"`
		Match      domain.MatchResult `json:"match"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "claude_sonnet_4", got.ModelID)
	assert.Len(t, got.Candidates, 2)
	assert.InDelta(t, 43.33, got.Score, 0.01)
	assert.Equal(t, []string{"Travis Hopkins", "Joe Parker"}, got.Match.BenchmarkMatches)
}

func TestExtractCmd_Errors(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "extract", filepath.Join(env.dir, "missing_output.txt"))
	assert.ErrorIs(t, err, domain.ErrTranscriptRead)

	empty := writeTranscript(t, env.dir, "empty", "  \n")
	_, err = execute(t, "extract", empty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "extract")
	assert.Error(t, err)
}

func TestExtractJSONCmd(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	writeTranscript(t, env.dir, "gpt_4_1", structuredTranscript)

	out, err := execute(t, "extract-json")

	require.NoError(t, err)
	assert.Contains(t, out, "✓ gpt_4_1: 1 contacts (Dead Horse Lake Golf Course)")
	assert.Contains(t, out, "Extracted 1 structured records.")

	_, err = os.Stat(filepath.Join(env.dir, "extracted_json", "gpt_4_1.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.dir, "extracted_json", "all_models_extracted.json"))
	assert.NoError(t, err)
}

func TestExtractJSONCmd_NoRecords(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "extract-json")

	require.NoError(t, err)
	assert.Contains(t, out, "No structured records found.")
}
