// Package tui provides the interactive benchmark dashboard.
// It is a driving adapter over the analysis service.
package tui

import (
	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
)

// Ports aggregates the services the dashboard needs.
type Ports struct {
	// Analysis runs and ranks the benchmark.
	Analysis driving.AnalysisService

	// Watcher reports transcript changes. Optional; without it the
	// dashboard only re-runs on request.
	Watcher driven.TranscriptWatcher

	// Options are passed to every analysis run.
	Options domain.AnalysisOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
