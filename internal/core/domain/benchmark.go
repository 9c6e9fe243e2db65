package domain

import (
	"fmt"
	"strings"
)

// BenchmarkEntry is one expected contact in the ground truth.
type BenchmarkEntry struct {
	Name  string `json:"name" toml:"name" yaml:"name"`
	Title string `json:"title" toml:"title" yaml:"title"`
}

// Benchmark is the fixed ground-truth set of expected contacts.
// Entry order is significant: fuzzy matching claims the first entry that fits.
// A Benchmark is read-only once constructed.
type Benchmark struct {
	entries []BenchmarkEntry
	index   map[string]int
}

// NewBenchmark builds a benchmark from entries in declared order.
// Names must be non-empty and unique.
func NewBenchmark(entries []BenchmarkEntry) (*Benchmark, error) {
	b := &Benchmark{
		entries: make([]BenchmarkEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: benchmark entry with empty name", ErrInvalidInput)
		}
		if _, dup := b.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate benchmark name %q", ErrInvalidInput, name)
		}
		b.index[name] = len(b.entries)
		b.entries = append(b.entries, BenchmarkEntry{Name: name, Title: strings.TrimSpace(e.Title)})
	}
	return b, nil
}

// DefaultBenchmarkEntries is the reference ground truth for
// "leadership/superintendent/manager of deadhorselake.com in knoxville".
func DefaultBenchmarkEntries() []BenchmarkEntry {
	return []BenchmarkEntry{
		{Name: "Travis Hopkins", Title: "President/Owner"},
		{Name: "Forrest Salts", Title: "Assistant Superintendent"},
		{Name: "Joe Parker", Title: "Superintendent"},
		{Name: "Pete Parker", Title: "Superintendent"},
		{Name: "Katie Brinker", Title: "Head Golf Professional"},
		{Name: "Bo Harris", Title: "General Manager"},
	}
}

// DefaultBenchmark returns the reference benchmark.
func DefaultBenchmark() *Benchmark {
	b, err := NewBenchmark(DefaultBenchmarkEntries())
	if err != nil {
		panic(err) // static data
	}
	return b
}

// Len returns the number of entries.
func (b *Benchmark) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Entries returns a copy of the entries in declared order.
func (b *Benchmark) Entries() []BenchmarkEntry {
	if b == nil {
		return nil
	}
	out := make([]BenchmarkEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Names returns the entry names in declared order.
func (b *Benchmark) Names() []string {
	if b == nil {
		return nil
	}
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.Name
	}
	return names
}

// Title returns the canonical title for name.
func (b *Benchmark) Title(name string) (string, bool) {
	if b == nil {
		return "", false
	}
	i, ok := b.index[name]
	if !ok {
		return "", false
	}
	return b.entries[i].Title, true
}

// Contains reports whether name is an exact benchmark name.
func (b *Benchmark) Contains(name string) bool {
	_, ok := b.Title(name)
	return ok
}
