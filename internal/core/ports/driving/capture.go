package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// CaptureOptions configures a capture session.
type CaptureOptions struct {
	// Timeout bounds a single model run. Zero means the service default.
	Timeout time.Duration

	// Pause is the wait between models. Zero means the service default;
	// a negative value disables the pause.
	Pause time.Duration
}

// CaptureService runs a query against several models and stores each reply
// as a transcript for later analysis.
type CaptureService interface {
	// Capture runs query against every model in order.
	// An empty models list means the configured default set.
	Capture(ctx context.Context, query string, models []string, opts CaptureOptions) (*domain.CaptureRun, error)
}
