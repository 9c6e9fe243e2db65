package mcp

import (
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis extracts, scores and ranks transcripts.
	Analysis driving.AnalysisService

	// Enrich runs live enrichment queries. Optional: the enrich tool
	// reports the LLM as unavailable when nil.
	Enrich driving.EnrichService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
