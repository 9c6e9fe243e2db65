package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// ExtractInput is the input schema for the extract_contacts tool.
type ExtractInput struct {
	ModelID string `json:"model_id" jsonschema:"id of the model that produced the text, selects the extraction rules"`
	Text    string `json:"text" jsonschema:"the transcript text to extract contacts from"`
}

// ContactOutput is a candidate contact.
type ContactOutput struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ExtractOutput is the output schema for the extract_contacts tool.
type ExtractOutput struct {
	Contacts   []ContactOutput     `json:"contacts"`
	Count      int                 `json:"count"`
	Structured *domain.LeadResults `json:"structured,omitempty"`
}

// ScoreInput is the input schema for the score_contacts tool.
type ScoreInput struct {
	ModelID  string          `json:"model_id,omitempty" jsonschema:"label for the scored candidate list"`
	Contacts []ContactOutput `json:"contacts" jsonschema:"candidate contacts to compare with the benchmark"`
}

// ScoreOutput is the output schema for the score_contacts tool.
type ScoreOutput struct {
	Score            float64         `json:"score"`
	Accuracy         float64         `json:"accuracy"`
	BenchmarkMatches []string        `json:"benchmark_matches"`
	BenchmarkMissed  []string        `json:"benchmark_missed"`
	ExtraContacts    []ContactOutput `json:"extra_contacts"`
}

// AnalyzeInput is the input schema for the analyze_transcripts tool.
type AnalyzeInput struct {
	Concurrency int  `json:"concurrency,omitempty" jsonschema:"number of transcripts processed at once (default 1)"`
	SkipStore   bool `json:"skip_store,omitempty" jsonschema:"do not record the run in history"`
}

// AnalyzeOutput is the output schema for the analyze_transcripts tool.
type AnalyzeOutput struct {
	RunID    string                `json:"run_id"`
	Rankings []domain.RankingEntry `json:"rankings"`
	Failures map[string]string     `json:"failures,omitempty"`
}

// EnrichInput is the input schema for the enrich tool.
type EnrichInput struct {
	Query string `json:"query" jsonschema:"business lead query, e.g. superintendent at pebblebeach.com"`
	Model string `json:"model,omitempty" jsonschema:"hosted model id or alias (default: configured model)"`
}

// EnrichOutput is the output schema for the enrich tool.
type EnrichOutput struct {
	RequestID  string              `json:"request_id"`
	Model      string              `json:"model"`
	Structured bool                `json:"structured"`
	Results    *domain.LeadResults `json:"results"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_contacts",
		Description: "Extract candidate contacts and any structured lead record from a model transcript",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "score_contacts",
		Description: "Compare candidate contacts with the benchmark and return accuracy and score",
	}, s.handleScore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_transcripts",
		Description: "Analyze every stored model transcript and return the model ranking",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "enrich",
		Description: "Find decision-makers and contact details for a business using web search and a hosted model",
	}, s.handleEnrich)
}

func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	out, err := s.ports.Analysis.ExtractTranscript(ctx, input.ModelID, input.Text)
	if err != nil {
		return nil, ExtractOutput{}, err
	}
	contacts := toContactOutputs(out.Candidates)
	return nil, ExtractOutput{
		Contacts:   contacts,
		Count:      len(contacts),
		Structured: out.Structured,
	}, nil
}

func (s *Server) handleScore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScoreInput,
) (*mcp.CallToolResult, ScoreOutput, error) {
	candidates := make([]domain.Contact, 0, len(input.Contacts))
	for _, c := range input.Contacts {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		candidates = append(candidates, domain.Contact{Name: name, Title: strings.TrimSpace(c.Title)})
	}

	result, score, err := s.ports.Analysis.Score(ctx, input.ModelID, candidates)
	if err != nil {
		return nil, ScoreOutput{}, err
	}
	return nil, ScoreOutput{
		Score:            score,
		Accuracy:         result.Accuracy,
		BenchmarkMatches: result.BenchmarkMatches,
		BenchmarkMissed:  result.BenchmarkMissed,
		ExtraContacts:    toContactOutputs(result.ExtraContacts),
	}, nil
}

func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	report, err := s.ports.Analysis.Analyze(ctx, domain.AnalysisOptions{
		Concurrency: input.Concurrency,
		SkipStore:   input.SkipStore,
	})
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	return nil, AnalyzeOutput{
		RunID:    report.RunID,
		Rankings: report.Rankings,
		Failures: report.Failures,
	}, nil
}

func (s *Server) handleEnrich(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EnrichInput,
) (*mcp.CallToolResult, EnrichOutput, error) {
	if s.ports.Enrich == nil {
		return nil, EnrichOutput{}, fmt.Errorf("enrich: %w", domain.ErrLLMUnavailable)
	}

	var (
		result *domain.EnrichResult
		err    error
	)
	if input.Model != "" {
		result, err = s.ports.Enrich.EnrichWithModel(ctx, input.Query, input.Model)
	} else {
		result, err = s.ports.Enrich.Enrich(ctx, input.Query)
	}
	if err != nil {
		return nil, EnrichOutput{}, err
	}

	return nil, EnrichOutput{
		RequestID:  result.RequestID,
		Model:      result.Model,
		Structured: result.Structured,
		Results:    result.Results,
	}, nil
}

func toContactOutputs(contacts []domain.Contact) []ContactOutput {
	out := make([]ContactOutput, len(contacts))
	for i, c := range contacts {
		out[i] = ContactOutput{Name: c.Name, Title: c.Title}
	}
	return out
}
