// Package exa provides a web search adapter for the Exa search API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// Ensure Searcher implements the interface.
var _ driven.WebSearcher = (*Searcher)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.exa.ai"
	DefaultTimeout = 30 * time.Second

	// DefaultRate is the sustained request rate in requests per second.
	DefaultRate  = 5
	DefaultBurst = 1
)

// Config holds configuration for the Exa searcher.
type Config struct {
	// APIKey is the Exa API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.exa.ai).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Rate and Burst configure the client-side rate limiter.
	Rate  float64
	Burst int
}

// Searcher runs web searches against Exa.
type Searcher struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

type searchRequest struct {
	Query         string   `json:"query"`
	NumResults    int      `json:"numResults,omitempty"`
	UseAutoprompt bool     `json:"useAutoprompt,omitempty"`
	Contents      contents `json:"contents"`
}

type contents struct {
	Text       *textOptions `json:"text,omitempty"`
	Highlights *struct{}    `json:"highlights,omitempty"`
	Summary    *struct{}    `json:"summary,omitempty"`
}

type textOptions struct {
	MaxCharacters int `json:"maxCharacters"`
}

type searchResponse struct {
	Results []struct {
		Title         string   `json:"title"`
		URL           string   `json:"url"`
		PublishedDate string   `json:"publishedDate"`
		Author        string   `json:"author"`
		Text          string   `json:"text"`
		Highlights    []string `json:"highlights"`
		Summary       string   `json:"summary"`
		Score         float64  `json:"score"`
	} `json:"results"`
	Error string `json:"error,omitempty"`
}

// New creates an Exa searcher.
func New(cfg Config) (*Searcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("exa: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	return &Searcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
	}, nil
}

// Name returns the provider name.
func (s *Searcher) Name() string { return "exa" }

// Search runs query and returns the hits in provider order.
func (s *Searcher) Search(ctx context.Context, query string, opts domain.WebSearchOptions) ([]domain.SearchHit, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("exa: rate limit: %w", err)
	}

	reqBody := searchRequest{
		Query:         query,
		NumResults:    opts.NumResults,
		UseAutoprompt: opts.Autoprompt,
	}
	if opts.TextLengthLimit > 0 {
		reqBody.Contents.Text = &textOptions{MaxCharacters: opts.TextLengthLimit}
	}
	if opts.Highlights {
		reqBody.Contents.Highlights = &struct{}{}
	}
	if opts.Summary {
		reqBody.Contents.Summary = &struct{}{}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("exa: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("exa: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("exa: read response: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("exa: %w", domain.ErrRateLimited)
	default:
		return nil, fmt.Errorf("exa: status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("exa: decode response: %w", err)
	}
	if searchResp.Error != "" {
		return nil, fmt.Errorf("exa: %s", searchResp.Error)
	}

	now := time.Now()
	hits := make([]domain.SearchHit, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		hits = append(hits, domain.SearchHit{
			Title:         r.Title,
			URL:           r.URL,
			PublishedDate: r.PublishedDate,
			Author:        r.Author,
			Text:          r.Text,
			Highlights:    r.Highlights,
			Summary:       r.Summary,
			Score:         r.Score,
			RetrievedAt:   now,
		})
	}
	logger.Debug("exa: %d results for %q", len(hits), query)
	return hits, nil
}
