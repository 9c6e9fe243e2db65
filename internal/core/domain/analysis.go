package domain

import "time"

// Transcript is the raw text captured from one model run.
type Transcript struct {
	// ModelID identifies the model that produced the text.
	ModelID string

	// Text is the full response transcript.
	Text string

	// Path is where the transcript was read from, if anywhere.
	Path string

	// CapturedAt is the modification time of the transcript.
	CapturedAt time.Time
}

// TranscriptChangeType describes what happened to a transcript.
type TranscriptChangeType string

const (
	TranscriptWritten TranscriptChangeType = "written"
	TranscriptRemoved TranscriptChangeType = "removed"
)

// TranscriptChange is emitted when a stored transcript changes.
type TranscriptChange struct {
	ModelID string
	Path    string
	Type    TranscriptChangeType
}

// MatchResult is the comparison of one model's candidates with the benchmark.
type MatchResult struct {
	ModelID          string    `json:"-"`
	ContactsFound    int       `json:"contacts_found"`
	Contacts         []Contact `json:"contacts"`
	BenchmarkMatches []string  `json:"benchmark_matches"`
	BenchmarkMissed  []string  `json:"benchmark_missed"`
	ExtraContacts    []Contact `json:"extra_contacts"`
	Accuracy         float64   `json:"accuracy"`
}

// RankingEntry is one row of the model ranking.
type RankingEntry struct {
	Model            string  `json:"model"`
	Score            float64 `json:"score"`
	Accuracy         float64 `json:"accuracy"`
	TotalContacts    int     `json:"total_contacts"`
	BenchmarkMatches int     `json:"benchmark_matches"`
}

// AnalysisOptions configures an analysis run.
type AnalysisOptions struct {
	// Concurrency bounds the number of transcripts processed at once.
	// Values below 1 mean sequential processing.
	Concurrency int

	// SkipStore disables persisting the run.
	SkipStore bool

	// SkipArtifacts disables writing JSON artifacts.
	SkipArtifacts bool
}

// AnalysisReport aggregates the results of one analysis run.
type AnalysisReport struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`

	// Order lists model ids in the order they were reported.
	Order []string `json:"order"`

	Results  map[string]MatchResult `json:"results"`
	Rankings []RankingEntry         `json:"rankings"`

	// Failures maps model id to the error that stopped its processing.
	Failures map[string]string `json:"failures,omitempty"`
}

// RunSummary is a stored analysis run without per-contact detail.
type RunSummary struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"started_at"`
	Models    int            `json:"models"`
	Top       *RankingEntry  `json:"top,omitempty"`
	Rankings  []RankingEntry `json:"rankings,omitempty"`
}

// ExtractionOutput is the result of extracting a single transcript.
type ExtractionOutput struct {
	ModelID    string       `json:"model_id"`
	Candidates []Contact    `json:"candidates"`
	Structured *LeadResults `json:"structured,omitempty"`
}
