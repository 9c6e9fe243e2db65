package scoring

import (
	"strings"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// Reconcile compares one model's candidates with the benchmark.
//
// A candidate matches when its name equals a benchmark name. Failing that,
// it matches the first benchmark entry, in declared order, that shares its
// last token or its first token. The token rule is loose on purpose and
// will pair unrelated people who share a surname or given name.
func Reconcile(modelID string, candidates []domain.Contact, benchmark *domain.Benchmark) domain.MatchResult {
	result := domain.MatchResult{
		ModelID:          modelID,
		ContactsFound:    len(candidates),
		Contacts:         nonNil(candidates),
		BenchmarkMatches: []string{},
		BenchmarkMissed:  []string{},
		ExtraContacts:    []domain.Contact{},
	}

	entries := benchmark.Entries()
	claimed := make(map[string]bool, len(entries))

	for _, c := range candidates {
		name, ok := matchEntry(c.Name, benchmark, entries)
		if !ok {
			result.ExtraContacts = append(result.ExtraContacts, c)
			continue
		}
		if !claimed[name] {
			claimed[name] = true
			result.BenchmarkMatches = append(result.BenchmarkMatches, name)
		}
	}

	for _, e := range entries {
		if !claimed[e.Name] {
			result.BenchmarkMissed = append(result.BenchmarkMissed, e.Name)
		}
	}

	if len(entries) > 0 {
		result.Accuracy = float64(len(result.BenchmarkMatches)) / float64(len(entries))
	}
	return result
}

// matchEntry returns the benchmark name a candidate name resolves to.
func matchEntry(name string, benchmark *domain.Benchmark, entries []domain.BenchmarkEntry) (string, bool) {
	if benchmark.Contains(name) {
		return name, true
	}
	first, last, ok := firstLast(name)
	if !ok {
		return "", false
	}
	for _, e := range entries {
		bFirst, bLast, ok := firstLast(e.Name)
		if !ok {
			continue
		}
		if bLast == last || bFirst == first {
			return e.Name, true
		}
	}
	return "", false
}

func firstLast(name string) (string, string, bool) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", "", false
	}
	return tokens[0], tokens[len(tokens)-1], true
}

func nonNil(c []domain.Contact) []domain.Contact {
	if c == nil {
		return []domain.Contact{}
	}
	return c
}
