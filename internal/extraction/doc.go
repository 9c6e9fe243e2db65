// Package extraction recovers contact records from free-form model transcripts.
//
// Two independent paths share the field parsers:
//
//   - Candidate extraction: a Registry maps model ids to strategy Groups,
//     each an ordered list of Rules. The Extractor runs the group for a
//     transcript, drops empty and sentinel names, dedups by name (first
//     write wins), then appends benchmark names the text mentions verbatim.
//   - Structured extraction: the StructuredExtractor tries fenced JSON, a
//     labelled LeadResults: section, and finally a brace scan, returning the
//     first full LeadResults record it can recover.
//
// Every heuristic here is best-effort. A miss is an empty result, never an error.
package extraction
