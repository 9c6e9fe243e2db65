package domain

import "time"

// SearchHit is one result returned by the web search provider.
type SearchHit struct {
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	PublishedDate string    `json:"published_date,omitempty"`
	Author        string    `json:"author,omitempty"`
	Text          string    `json:"text,omitempty"`
	Highlights    []string  `json:"highlights,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	Score         float64   `json:"score,omitempty"`
	RetrievedAt   time.Time `json:"-"`
}

// WebSearchOptions configures a web search.
type WebSearchOptions struct {
	// NumResults is the number of results to request.
	NumResults int

	// TextLengthLimit caps the page text returned per result.
	TextLengthLimit int

	// Highlights requests relevant snippets per result.
	Highlights bool

	// Summary requests a short summary per result.
	Summary bool

	// Autoprompt lets the provider rewrite the query.
	Autoprompt bool
}

// ModelConfig holds per-model generation settings.
type ModelConfig struct {
	MaxTokens int  `toml:"max_tokens" json:"max_tokens"`
	JSONMode  bool `toml:"use_json_mode" json:"use_json_mode"`
}

// EnrichResult is the outcome of one enrichment query.
type EnrichResult struct {
	RequestID      string        `json:"request_id"`
	Query          string        `json:"query"`
	Model          string        `json:"model"`
	ProcessingTime time.Duration `json:"-"`
	Results        *LeadResults  `json:"results"`

	// Structured reports whether the model reply parsed as a full record,
	// as opposed to a record rebuilt from candidate extraction.
	Structured bool `json:"structured"`

	// Raw is the unmodified model reply.
	Raw string `json:"-"`
}

// HealthStatus describes configured upstream services.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Healthy reports whether all upstream services are configured.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// CaptureStatus is the outcome of running one model.
type CaptureStatus string

const (
	CaptureSuccess CaptureStatus = "success"
	CaptureError   CaptureStatus = "error"
	CaptureTimeout CaptureStatus = "timeout"
)

// CaptureModelResult records one model run of a capture session.
type CaptureModelResult struct {
	Status          CaptureStatus `json:"status"`
	DurationSeconds float64       `json:"duration_seconds"`
	OutputFile      string        `json:"output_file,omitempty"`
	JSONFile        string        `json:"json_file,omitempty"`
	Error           string        `json:"error,omitempty"`
	JSONFound       bool          `json:"json_found"`
}

// CaptureRun summarises a capture session across models.
type CaptureRun struct {
	TestDate time.Time                     `json:"test_date"`
	Query    string                        `json:"query"`
	Models   map[string]CaptureModelResult `json:"models"`
}
