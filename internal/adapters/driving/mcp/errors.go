// Package mcp provides an MCP (Model Context Protocol) server adapter for leadbench.
// It lets AI assistants extract contacts from transcripts, score them against
// the benchmark and run enrichment queries.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")
