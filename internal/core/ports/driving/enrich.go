package driving

import (
	"context"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// EnrichService finds contacts for a business query using web search and a
// hosted language model.
type EnrichService interface {
	// Enrich runs one query against the default model.
	Enrich(ctx context.Context, query string) (*domain.EnrichResult, error)

	// EnrichWithModel runs one query against a specific model.
	EnrichWithModel(ctx context.Context, query, model string) (*domain.EnrichResult, error)

	// Health reports which upstream services are configured.
	Health(ctx context.Context) domain.HealthStatus
}
