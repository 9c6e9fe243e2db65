package driven

import (
	"context"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// WebSearcher retrieves web pages relevant to a lead query.
// This is an optional service: enrichment continues without search context
// when it is nil or when a search fails.
type WebSearcher interface {
	// Search runs a query and returns hits in relevance order.
	Search(ctx context.Context, query string, opts domain.WebSearchOptions) ([]domain.SearchHit, error)

	// Name identifies the provider in health reports and logs.
	Name() string
}
