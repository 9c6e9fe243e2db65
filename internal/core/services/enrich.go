package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
	"github.com/custodia-labs/leadbench/internal/extraction"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// Ensure EnrichService implements the interface.
var _ driving.EnrichService = (*EnrichService)(nil)

// Health and service status values.
const (
	StatusHealthy    = "healthy"
	StatusDegraded   = "degraded"
	StatusConfigured = "configured"
	StatusMissing    = "missing"
)

// Service keys reported by Health.
const (
	ServiceLLM    = "openrouter_api"
	ServiceSearch = "exa_api"
)

// Fallback prompts used when no PromptStore is set.
const (
	fallbackAgentPrompt = "You are a local business lead generation specialist. Today is {date}.\n" +
		"Find current decision-makers and their contact details for: {query}\n\n" +
		"Web search results:\n{search_context}\n\n" +
		"Reply with a single JSON object with business, contacts, metadata, " +
		"search_confidence and search_query fields."
	fallbackUserPrompt = "{query}"
)

// DefaultSearchOptions are the web search settings used for enrichment.
func DefaultSearchOptions() domain.WebSearchOptions {
	return domain.WebSearchOptions{
		NumResults:      10,
		TextLengthLimit: 1000,
		Highlights:      true,
		Summary:         true,
		Autoprompt:      true,
	}
}

// EnrichService finds contacts for a business using web search and a hosted model.
type EnrichService struct {
	llm          driven.LLMService
	search       driven.WebSearcher
	prompts      driven.PromptStore
	models       *ModelTable
	extractor    *extraction.Extractor
	searchOpts   domain.WebSearchOptions
	defaultModel string
	version      string
	now          func() time.Time
}

// NewEnrichService creates an enrichment service.
// The llm and search parameters are optional (can be nil); Health reports
// which are missing and Enrich fails with ErrLLMUnavailable without an llm.
//
// The extractor recovers contacts from unstructured replies. It should be
// built without a benchmark, otherwise benchmark names mentioned in a live
// reply are reported as contacts.
func NewEnrichService(
	llm driven.LLMService,
	search driven.WebSearcher,
	models *ModelTable,
	extractor *extraction.Extractor,
) *EnrichService {
	if models == nil {
		models = NewModelTable(nil, nil)
	}
	defaultModel := DefaultModel
	if llm != nil && llm.ModelName() != "" {
		defaultModel = llm.ModelName()
	}
	return &EnrichService{
		llm:          llm,
		search:       search,
		models:       models,
		extractor:    extractor,
		searchOpts:   DefaultSearchOptions(),
		defaultModel: defaultModel,
		version:      "dev",
		now:          time.Now,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *EnrichService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetVersion sets the version reported by Health.
func (s *EnrichService) SetVersion(v string) {
	s.version = v
}

// SetSearchOptions overrides the web search settings.
func (s *EnrichService) SetSearchOptions(opts domain.WebSearchOptions) {
	s.searchOpts = opts
}

// Enrich runs one query against the default model.
func (s *EnrichService) Enrich(ctx context.Context, query string) (*domain.EnrichResult, error) {
	return s.EnrichWithModel(ctx, query, "")
}

// EnrichWithModel runs one query against model, which may be a short id,
// a hosted id, or empty for the default.
func (s *EnrichService) EnrichWithModel(ctx context.Context, query, model string) (*domain.EnrichResult, error) {
	logger.Section("Enrich")
	start := s.now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if model == "" {
		model = s.defaultModel
	}
	upstream, cfg, err := s.models.Lookup(model)
	if err != nil {
		return nil, err
	}
	logger.Debug("Model %s (max_tokens=%d, json_mode=%v)", upstream, cfg.MaxTokens, cfg.JSONMode)

	hits := s.searchContext(ctx, query)
	system, user := s.renderPrompts(query, hits)

	reply, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, driven.ChatOptions{
		Model:     upstream,
		MaxTokens: cfg.MaxTokens,
		JSONMode:  cfg.JSONMode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	record, structured := s.structuredFor(query).Extract(reply)
	if !structured {
		record = s.partialRecord(reply, model, query)
	}
	if record.SearchQuery == "" {
		record.SearchQuery = query
	}

	result := &domain.EnrichResult{
		RequestID:      uuid.NewString(),
		Query:          query,
		Model:          upstream,
		ProcessingTime: s.now().Sub(start),
		Results:        record,
		Structured:     structured,
		Raw:            reply,
	}
	logger.Debug("Enrich %s: %d contacts (structured=%v) in %s",
		result.RequestID, len(record.Contacts), structured, result.ProcessingTime)
	return result, nil
}

// searchContext runs the web search. Failures are logged and yield no hits.
func (s *EnrichService) searchContext(ctx context.Context, query string) []domain.SearchHit {
	if s.search == nil {
		logger.Debug("No web searcher configured")
		return nil
	}
	hits, err := s.search.Search(ctx, query, s.searchOpts)
	if err != nil {
		logger.Warn("%s search failed, continuing without context: %v", s.search.Name(), err)
		return nil
	}
	logger.Debug("%s returned %d hits", s.search.Name(), len(hits))
	return hits
}

func (s *EnrichService) renderPrompts(query string, hits []domain.SearchHit) (string, string) {
	r := strings.NewReplacer(
		driven.PlaceholderDate, s.now().Format("2006-01-02"),
		driven.PlaceholderQuery, query,
		driven.PlaceholderSearchContext, renderHits(hits),
	)
	return r.Replace(s.loadPrompt(driven.PromptEnrichAgent, fallbackAgentPrompt)),
		r.Replace(s.loadPrompt(driven.PromptEnrichUser, fallbackUserPrompt))
}

func (s *EnrichService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	p, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(p) == "" {
		logger.Debug("Prompt %s unavailable, using built-in: %v", name, err)
		return fallback
	}
	return p
}

// renderHits formats search hits as numbered plain-text blocks.
func renderHits(hits []domain.SearchHit) string {
	if len(hits) == 0 {
		return "(no search results)"
	}
	var b strings.Builder
	for i, h := range hits {
		fmt.Fprintf(&b, "[%d] %s\n%s\n", i+1, h.Title, h.URL)
		if h.PublishedDate != "" {
			fmt.Fprintf(&b, "Published: %s\n", h.PublishedDate)
		}
		if h.Summary != "" {
			fmt.Fprintf(&b, "Summary: %s\n", h.Summary)
		}
		for _, hl := range h.Highlights {
			fmt.Fprintf(&b, "- %s\n", hl)
		}
		if h.Text != "" && len(h.Highlights) == 0 {
			fmt.Fprintf(&b, "%s\n", h.Text)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// structuredFor returns a structured extractor whose fallbacks come from
// query alone.
func (s *EnrichService) structuredFor(query string) *extraction.StructuredExtractor {
	sentinel := extraction.DefaultSentinel
	if s.extractor != nil {
		sentinel = s.extractor.Sentinel()
	}
	return extraction.NewStructuredExtractor(
		extraction.NewSectionParser(extraction.QueryDefaults(query), sentinel))
}

// partialRecord rebuilds a record from candidate extraction when the reply
// has no structured block.
func (s *EnrichService) partialRecord(reply, model, query string) *domain.LeadResults {
	candidates := []domain.Contact{}
	if s.extractor != nil {
		candidates = s.extractor.ExtractCandidates(reply, model)
	}
	confidence := domain.ConfidenceLow
	if len(candidates) > 0 {
		confidence = domain.ConfidenceMedium
	}
	return &domain.LeadResults{
		Contacts:         candidates,
		ContactsFound:    len(candidates),
		SearchConfidence: confidence,
		SearchQuery:      query,
	}
}

// Health reports which upstream services are configured.
func (s *EnrichService) Health(_ context.Context) domain.HealthStatus {
	services := map[string]string{
		ServiceLLM:    StatusMissing,
		ServiceSearch: StatusMissing,
	}
	if s.llm != nil {
		services[ServiceLLM] = StatusConfigured
	}
	if s.search != nil {
		services[ServiceSearch] = StatusConfigured
	}

	status := StatusHealthy
	for _, v := range services {
		if v != StatusConfigured {
			status = StatusDegraded
		}
	}
	return domain.HealthStatus{
		Status:    status,
		Version:   s.version,
		Timestamp: s.now().UTC(),
		Services:  services,
	}
}
