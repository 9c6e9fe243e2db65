// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TranscriptStore: captured model transcripts
//   - ArtifactWriter: JSON result artifacts
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: hosted model completions. Without it, enrich and capture are disabled.
//   - WebSearcher: web search context. Without it, enrichment runs on the model alone.
//   - ResultStore: run history. Without it, only the latest artifacts exist.
//   - PromptStore: prompt templates. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
