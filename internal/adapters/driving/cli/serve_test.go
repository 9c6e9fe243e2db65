package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

func TestServeCmd_Flags(t *testing.T) {
	addr := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, "a", addr.Shorthand)
	assert.NotNil(t, serveCmd.Flags().Lookup("schedule"))
	assert.Equal(t, "0.0.0.0:8000", DefaultServeAddr)
}

func TestServeCmd_RequiresEnrich(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrich service not configured")
}

func TestServeCmd_StopsOnCancel(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	SetServices(&Services{
		Analysis: env.analysis,
		Enrich:   &mockEnrichService{result: sampleEnrichResult()},
		Addr:     "127.0.0.1:0",
		Schedule: "@every 1h",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := executeContext(t, ctx, "serve")

	require.NoError(t, err)
	assert.Contains(t, out, "Serving on http://127.0.0.1:0")
}

func TestServeCmd_AddrFlagOverridesConfig(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	SetServices(&Services{
		Enrich: &mockEnrichService{},
		Addr:   "0.0.0.0:9999",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := executeContext(t, ctx, "serve", "--addr", "127.0.0.1:0")

	require.NoError(t, err)
	assert.Contains(t, out, "Serving on http://127.0.0.1:0")
}

func TestServeCmd_InvalidSchedule(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	SetServices(&Services{Analysis: env.analysis, Enrich: &mockEnrichService{}})

	_, err := execute(t, "serve", "--schedule", "not a cron spec")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
