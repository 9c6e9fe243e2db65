// Package domain defines the core business entities for leadbench.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Transcript: raw text captured from one model run
//   - Contact: a candidate person extracted from a transcript
//   - Benchmark: the fixed ground truth of expected contacts
//   - MatchResult / RankingEntry: per-model scoring output
//   - LeadResults: the full structured business/contacts/metadata record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
