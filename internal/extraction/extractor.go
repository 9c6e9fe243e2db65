package extraction

import (
	"strings"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// DefaultSentinel is a facility name the patterns occasionally capture as a person.
const DefaultSentinel = "Dead Horse"

// Extractor turns a transcript into a deduplicated candidate list.
type Extractor struct {
	registry  *Registry
	benchmark *domain.Benchmark
	sentinel  string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSentinel sets the placeholder string that disqualifies a name.
// An empty sentinel disables the filter.
func WithSentinel(s string) Option {
	return func(e *Extractor) {
		e.sentinel = s
	}
}

// New creates an extractor. The benchmark is used for the augmentation
// pass and may be nil.
func New(registry *Registry, benchmark *domain.Benchmark, opts ...Option) *Extractor {
	e := &Extractor{
		registry:  registry,
		benchmark: benchmark,
		sentinel:  DefaultSentinel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sentinel returns the configured placeholder string.
func (e *Extractor) Sentinel() string {
	return e.sentinel
}

// ExtractCandidates applies the strategy group for modelID to text, then
// appends every benchmark name mentioned verbatim that was not already found.
//
// Any mention counts, including negative or unrelated ones; scoring relies on
// this. The result has unique, non-empty names and never fails.
func (e *Extractor) ExtractCandidates(text, modelID string) []domain.Contact {
	set := newCandidateSet(e.sentinel)

	if group := e.registry.Lookup(modelID); group != nil {
		logger.Debug("extract %s: group %s (%d rules)", modelID, group.Name(), group.Len())
		for _, c := range group.Run(text, e.sentinel) {
			set.add(c.Name, c.Title)
		}
	}
	ruleCount := set.len()

	for _, entry := range e.benchmark.Entries() {
		if strings.Contains(text, entry.Name) {
			set.add(entry.Name, entry.Title)
		}
	}

	logger.Debug("extract %s: %d from rules, %d from benchmark mentions",
		modelID, ruleCount, set.len()-ruleCount)
	return set.contacts
}

// candidateSet accumulates contacts with first-write-wins dedup by name.
type candidateSet struct {
	sentinel string
	seen     map[string]struct{}
	contacts []domain.Contact
}

func newCandidateSet(sentinel string) *candidateSet {
	return &candidateSet{
		sentinel: sentinel,
		seen:     make(map[string]struct{}),
		contacts: []domain.Contact{},
	}
}

func (s *candidateSet) add(name, title string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if IsSentinel(name, s.sentinel) {
		return false
	}
	if _, dup := s.seen[name]; dup {
		return false
	}
	s.seen[name] = struct{}{}
	s.contacts = append(s.contacts, domain.Contact{Name: name, Title: strings.TrimSpace(title)})
	return true
}

func (s *candidateSet) len() int {
	return len(s.contacts)
}

// IsSentinel reports whether name contains the sentinel placeholder.
func IsSentinel(name, sentinel string) bool {
	return sentinel != "" && strings.Contains(name, sentinel)
}
