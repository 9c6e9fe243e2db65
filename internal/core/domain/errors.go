package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownModel indicates a model id has no registered configuration.
	ErrUnknownModel = errors.New("unknown model")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Enrichment and capture are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUpstream indicates the hosted model or search API failed.
	ErrUpstream = errors.New("upstream failure")

	// ErrTranscriptRead indicates a transcript could not be read.
	// It is fatal to one model's processing, never to a batch.
	ErrTranscriptRead = errors.New("transcript read failed")

	// ErrRateLimited indicates a hosted API answered 429.
	ErrRateLimited = errors.New("rate limited")
)
