package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names.
const (
	// PromptEnrichAgent is the system prompt for the lead enrichment agent.
	// The template may use the {date}, {query} and {search_context} placeholders.
	PromptEnrichAgent = "enrich_agent"

	// PromptEnrichUser wraps the user query.
	// The template may use the same placeholders as PromptEnrichAgent.
	PromptEnrichUser = "enrich_user"
)

// Placeholders substituted into prompt templates.
const (
	PlaceholderDate          = "{date}"
	PlaceholderQuery         = "{query}"
	PlaceholderSearchContext = "{search_context}"
)
