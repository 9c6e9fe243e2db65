package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockTranscriptStore implements driven.TranscriptStore in memory.
type mockTranscriptStore struct {
	mu      sync.Mutex
	texts   map[string]string
	readErr map[string]error
	listErr error
	written []string
}

func newMockTranscriptStore(texts map[string]string) *mockTranscriptStore {
	if texts == nil {
		texts = make(map[string]string)
	}
	return &mockTranscriptStore{texts: texts, readErr: make(map[string]error)}
}

func (m *mockTranscriptStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]string, 0, len(m.texts)+len(m.readErr))
	for id := range m.texts {
		ids = append(ids, id)
	}
	for id := range m.readErr {
		if _, ok := m.texts[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockTranscriptStore) Read(_ context.Context, modelID string) (*domain.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErr[modelID]; err != nil {
		return nil, err
	}
	text, ok := m.texts[modelID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Transcript{ModelID: modelID, Text: text}, nil
}

func (m *mockTranscriptStore) Write(_ context.Context, t *domain.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[t.ModelID] = t.Text
	t.Path = "/mock/" + t.ModelID + "_output.txt"
	m.written = append(m.written, t.ModelID)
	return nil
}

func (m *mockTranscriptStore) Dir() string { return "/mock" }

// mockArtifacts implements driven.ArtifactWriter by keeping encoded JSON.
type mockArtifacts struct {
	mu       sync.Mutex
	files    map[string][]byte
	writeErr error
}

func newMockArtifacts() *mockArtifacts {
	return &mockArtifacts{files: make(map[string][]byte)}
}

func (m *mockArtifacts) WriteJSON(_ context.Context, name string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	m.files[name] = data
	return nil
}

func (m *mockArtifacts) ReadJSON(_ context.Context, name string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return domain.ErrNotFound
	}
	return json.Unmarshal(data, v)
}

func (m *mockArtifacts) Dir() string { return "/mock" }

func (m *mockArtifacts) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

// mockResultStore implements driven.ResultStore in memory.
type mockResultStore struct {
	mu      sync.Mutex
	runs    []*domain.AnalysisReport
	saveErr error
}

func (m *mockResultStore) SaveRun(_ context.Context, r *domain.AnalysisReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.runs = append(m.runs, r)
	return nil
}

func (m *mockResultStore) GetRun(_ context.Context, id string) (*domain.AnalysisReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.RunID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockResultStore) LatestRun(_ context.Context) (*domain.AnalysisReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		return nil, domain.ErrNotFound
	}
	return m.runs[len(m.runs)-1], nil
}

func (m *mockResultStore) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RunSummary
	for i := len(m.runs) - 1; i >= 0; i-- {
		out = append(out, domain.RunSummary{ID: m.runs[i].RunID, Models: len(m.runs[i].Order)})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockResultStore) Close() error { return nil }

func (m *mockResultStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}

// mockLLM implements driven.LLMService with canned replies per model.
type mockLLM struct {
	mu       sync.Mutex
	replies  map[string]string
	reply    string
	err      error
	delay    time.Duration
	calls    []driven.ChatOptions
	messages [][]driven.ChatMessage
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: prompt}}, driven.ChatOptions{
		Model: opts.Model, MaxTokens: opts.MaxTokens, JSONMode: opts.JSONMode,
	})
}

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, opts)
	m.messages = append(m.messages, messages)
	delay, err := m.delay, m.err
	reply, ok := m.replies[opts.Model]
	if !ok {
		reply = m.reply
	}
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (m *mockLLM) ModelName() string            { return "" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastCall() (driven.ChatOptions, []driven.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return driven.ChatOptions{}, nil
	}
	return m.calls[len(m.calls)-1], m.messages[len(m.messages)-1]
}

// mockSearcher implements driven.WebSearcher.
type mockSearcher struct {
	hits []domain.SearchHit
	err  error
	opts domain.WebSearchOptions
}

func (m *mockSearcher) Search(_ context.Context, _ string, opts domain.WebSearchOptions) ([]domain.SearchHit, error) {
	m.opts = opts
	return m.hits, m.err
}

func (m *mockSearcher) Name() string { return "mock" }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %s: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}
