package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, falling
// back to embedded defaults.
//
// The directory and default files are created lazily on the first Load.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptEnrichAgent: `You are an expert local business lead generation specialist focused on finding key contacts at local businesses.
Today's date is {date}.

MISSION: Find practical contacts and decision-makers at the business described by the query, with actionable contact information.

## STEP 0: Parse the query
- A domain (e.g. "pebblebeach.com") means start with the business website.
- A business name plus location means search with location context.
- A business type plus area means an area-based search.

## PHASE 1: Understand the business
Work out the business type, the services offered, the location, and the size of the operation.

## PHASE 2: Search for the roles that matter for this business type
- Golf courses: Superintendent, Assistant Superintendent, Director of Golf, Head Golf Professional, General Manager.
- Restaurants: General Manager, Owner, Executive Chef, Events Manager.
- Retail and services: Owner, Store Manager, Operations Manager.
- Hotels: General Manager, F&B Director, Sales Director.

## PHASE 3: Verify each contact
- Give the full name and exact title.
- Classify employment_status as CURRENT (verified within 6 months), LIKELY_CURRENT (within 12 months), UNCERTAIN (older) or FORMER.
- Classify phone_type as BUSINESS_MAIN, BUSINESS_DIRECT, PERSONAL or UNKNOWN.
- Always provide an email. Use a direct address when found, otherwise apply the company pattern (first.last@domain is most common) and set email_type to DIRECT, GENERIC, PATTERN or NOT_FOUND.
- Score confidence_score from 0.0 to 1.0 by recency and number of sources.

## WEB SEARCH RESULTS
{search_context}

## OUTPUT FORMAT
Reply with a single JSON object (LocalLeadResults) with these keys:
- business: name, address, phone, website_url, business_type, description, services_offered, operating_hours, years_established, employee_count_estimate, review_rating, specialties, location_details
- contacts: list of name, title, business_name, business_website, phone, phone_type, email, email_type, email_pattern, employment_status, verification_recency, background_summary, confidence_score, source_urls, linkedin_url, years_in_position, last_verified_date, previous_roles, verification_notes
- contacts_found
- metadata: search_terms_used, sources_searched, verification_methods, total_results_analyzed, job_titles_searched, search_location, search_radius, email_pattern_detected, emails_found_count, challenges_encountered
- search_confidence: HIGH, MEDIUM or LOW
- search_query

The goal is actionable contact information for sales outreach, not just names.`,

	driven.PromptEnrichUser: `{query}`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.leadbench/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, DefaultDirName, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// Falls back to the embedded default if the file is missing or unreadable.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# leadbench prompts

Prompts sent to the hosted model by ` + "`leadbench enrich`" + ` and ` + "`leadbench capture`" + `.

## Files

- ` + "`enrich_agent.txt`" + ` - System prompt for the lead enrichment agent
- ` + "`enrich_user.txt`" + ` - User message wrapping the query

## Placeholders

- ` + "`{date}`" + ` - Today's date (YYYY-MM-DD)
- ` + "`{query}`" + ` - The enrichment query
- ` + "`{search_context}`" + ` - Rendered web search results

Delete a file to restore its default on the next run.
`
	return os.WriteFile(path, []byte(content), 0600)
}
