package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for leadbench resources.
	uriScheme = "leadbench://"

	// defaultRunLimit bounds the run list resource.
	defaultRunLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "rankings",
		Name:        "rankings",
		Description: "Model ranking from the most recent analysis run",
		MIMEType:    "application/json",
	}, s.handleRankingsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent analysis runs with their top-ranked model",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs?limit={limit}",
		Name:        "runs-limited",
		Description: "Recent analysis runs, at most limit entries",
		MIMEType:    "application/json",
	}, s.handleRunsResource)
}

// handleRankingsResource returns the rankings of the latest run.
func (s *Server) handleRankingsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	report, err := s.ports.Analysis.LatestRun(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return jsonResource(req.Params.URI, []domain.RankingEntry{})
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest run: %w", err)
	}
	if report.Rankings == nil {
		return jsonResource(req.Params.URI, []domain.RankingEntry{})
	}
	return jsonResource(req.Params.URI, report.Rankings)
}

// handleRunsResource returns stored run summaries.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	limit, ok := extractLimit(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runs, err := s.ports.Analysis.ListRuns(ctx, limit)
	if errors.Is(err, domain.ErrNotFound) {
		return jsonResource(req.Params.URI, []domain.RunSummary{})
	}
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	if runs == nil {
		runs = []domain.RunSummary{}
	}
	return jsonResource(req.Params.URI, runs)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractLimit reads the limit from a URI like leadbench://runs?limit={limit}.
// A URI without a limit yields the default.
func extractLimit(uri string) (int, bool) {
	const prefix = uriScheme + "runs"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(uri, prefix)
	if rest == "" {
		return defaultRunLimit, true
	}

	value, found := strings.CutPrefix(rest, "?limit=")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
