package extraction

import (
	"encoding/json"
	"regexp"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// Tier names a structured extraction strategy.
type Tier string

const (
	TierNone      Tier = ""
	TierFenced    Tier = "fenced"
	TierSection   Tier = "section"
	TierBraceScan Tier = "brace_scan"
	TierResponse  Tier = "response"
)

// MinObjectFields is the smallest top-level field count a brace-scanned
// object needs before it is considered a record.
const MinObjectFields = 3

var fencedPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```json\\n(.*?)\\n```"),
	regexp.MustCompile("(?s)```\\n(\\{.*?\\})\\n```"),
	regexp.MustCompile(`(?s)(\{[^{}]*"business"[^{}]*:.*?\n\})`),
	regexp.MustCompile(`(?s)(\{\s*"business"\s*:.*?"metadata"\s*:.*?\})`),
}

// StructuredExtractor recovers a full LeadResults record from a transcript.
//
// Three tiers are tried in order and the first success wins:
//  1. fenced or business-keyed JSON blocks
//  2. a labelled LeadResults: section read by the SectionParser
//  3. a scan of every balanced {...} object, keeping the largest that parses
//
// Tier 3 is inherently approximate: without a grammar for the upstream
// free text there is no way to know which object the model meant.
type StructuredExtractor struct {
	sections *SectionParser
}

// NewStructuredExtractor creates an extractor using parser for tier 2.
func NewStructuredExtractor(parser *SectionParser) *StructuredExtractor {
	return &StructuredExtractor{sections: parser}
}

// Extract returns the record and true, or nil and false when no tier succeeds.
func (s *StructuredExtractor) Extract(text string) (*domain.LeadResults, bool) {
	record, tier := s.ExtractTier(text)
	return record, tier != TierNone
}

// ExtractTier is Extract, also reporting which tier produced the record.
func (s *StructuredExtractor) ExtractTier(text string) (*domain.LeadResults, Tier) {
	if obj := fencedObject(text); obj != nil {
		logger.Debug("structured: fenced JSON block")
		return recordFromMap(obj), TierFenced
	}

	if section, ok := locateSection(text); ok && s.sections != nil {
		if record := s.sections.Parse(section); len(record.Contacts) > 0 {
			logger.Debug("structured: labelled section with %d contacts", len(record.Contacts))
			return record, TierSection
		}
	}

	if obj := largestObject(text); obj != nil {
		logger.Debug("structured: brace scan")
		return recordFromMap(obj), TierBraceScan
	}

	return nil, TierNone
}

// Recover is ExtractTier with a last resort for saved transcripts: the
// labelled parser run over everything after a "Response" header.
func (s *StructuredExtractor) Recover(text string) (*domain.LeadResults, Tier) {
	if record, tier := s.ExtractTier(text); tier != TierNone {
		return record, tier
	}
	if s.sections != nil {
		if record, ok := s.sections.ParseTranscript(text); ok {
			logger.Debug("structured: response section with %d contacts", len(record.Contacts))
			return record, TierResponse
		}
	}
	return nil, TierNone
}

// fencedObject returns the first fenced block that parses and has the
// business and contacts keys.
func fencedObject(text string) map[string]any {
	for _, pattern := range fencedPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			obj, ok := parseObject(m[1])
			if ok && hasRecordShape(obj) {
				return obj
			}
		}
	}
	return nil
}

// largestObject scans every balanced brace span and returns the largest
// one that parses and has at least MinObjectFields keys. No key names are
// required here.
func largestObject(text string) map[string]any {
	var best map[string]any
	bestLen := 0
	for _, span := range braceSpans(text) {
		if len(span) <= bestLen {
			continue
		}
		obj, ok := parseObject(span)
		if !ok || len(obj) < MinObjectFields {
			continue
		}
		best, bestLen = obj, len(span)
	}
	return best
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func hasRecordShape(obj map[string]any) bool {
	_, hasBusiness := obj["business"]
	_, hasContacts := obj["contacts"]
	return hasBusiness && hasContacts
}

// braceSpans returns every balanced {...} substring, including nested ones,
// ignoring braces inside JSON strings.
func braceSpans(text string) []string {
	var (
		spans    []string
		stack    []int
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if len(stack) > 0 {
				inString = true
			}
		case '{':
			stack = append(stack, i)
		case '}':
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			spans = append(spans, text[start:i+1])
		}
	}
	return spans
}
