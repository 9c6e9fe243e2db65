package driven

import (
	"context"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// TranscriptStore reads and writes captured model transcripts.
type TranscriptStore interface {
	// List returns the model ids that have a transcript, sorted.
	List(ctx context.Context) ([]string, error)

	// Read returns the transcript for a model.
	// Returns domain.ErrNotFound if the model has no transcript.
	Read(ctx context.Context, modelID string) (*domain.Transcript, error)

	// Write stores a transcript, replacing any previous one for the model,
	// and sets t.Path to where it was written.
	Write(ctx context.Context, t *domain.Transcript) error

	// Dir returns the directory transcripts live in.
	Dir() string
}

// TranscriptWatcher reports changes to stored transcripts.
// This is an optional service used by watch mode.
type TranscriptWatcher interface {
	// Watch emits a change for every transcript written or removed until
	// ctx is cancelled, then closes the channel.
	Watch(ctx context.Context) (<-chan domain.TranscriptChange, error)
}
