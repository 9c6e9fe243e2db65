package extraction

import "github.com/custodia-labs/leadbench/internal/core/domain"

// Group is an ordered list of rules for one transcript format.
// Rules run in priority order and their outputs are concatenated, so an
// earlier rule's capture of a name wins over a later rule's.
type Group struct {
	name  string
	rules []Rule
}

// NewGroup creates a strategy group with the given rules.
// Rules are executed in the order provided.
func NewGroup(name string, rules ...Rule) *Group {
	return &Group{name: name, rules: rules}
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Add appends a rule to the group.
func (g *Group) Add(rule Rule) {
	g.rules = append(g.rules, rule)
}

// Len returns the number of rules in the group.
func (g *Group) Len() int {
	return len(g.rules)
}

// Rules returns the rule names in priority order.
func (g *Group) Rules() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.Name()
	}
	return names
}

// Match runs every rule against the full text and concatenates the results.
// No cleaning or deduplication happens here.
func (g *Group) Match(text string) []Pair {
	var pairs []Pair
	for _, rule := range g.rules {
		pairs = append(pairs, rule.Match(text)...)
	}
	return pairs
}

// Run is Match with cleaning: names and titles are trimmed, empty names and
// names containing sentinel are dropped, and the first capture of a name wins.
func (g *Group) Run(text, sentinel string) []domain.Contact {
	set := newCandidateSet(sentinel)
	for _, p := range g.Match(text) {
		set.add(p.Name, p.Title)
	}
	return set.contacts
}
