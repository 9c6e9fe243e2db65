package extraction

import (
	"regexp"
	"strings"
)

// UnknownTitle is used when a rule captures a name without a title.
const UnknownTitle = "Unknown"

// Pair is a raw (name, title) capture from a single rule.
type Pair struct {
	Name  string
	Title string
}

// Rule is one independent pattern heuristic.
// Match never fails: no match yields nil.
type Rule interface {
	// Name identifies the rule in logs and configuration.
	Name() string

	// Match returns every (name, title) pair the rule finds in text.
	Match(text string) []Pair
}

// PatternRule captures a name in group 1 and, optionally, a title in group 2.
type PatternRule struct {
	name    string
	pattern *regexp.Regexp
}

// NewPatternRule creates a rule from a compiled pattern.
func NewPatternRule(name string, pattern *regexp.Regexp) *PatternRule {
	return &PatternRule{name: name, pattern: pattern}
}

// Name returns the rule name.
func (r *PatternRule) Name() string { return r.name }

// Match returns all captures. Missing titles become UnknownTitle.
func (r *PatternRule) Match(text string) []Pair {
	matches := r.pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	pairs := make([]Pair, 0, len(matches))
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		title := UnknownTitle
		if len(m) > 2 && strings.TrimSpace(m[2]) != "" {
			title = m[2]
		}
		pairs = append(pairs, Pair{Name: m[1], Title: title})
	}
	return pairs
}

// LabelledNameRule captures "Name: X" fields and looks for the first
// "Title:" line that follows the name anywhere later in the text.
type LabelledNameRule struct {
	name         string
	pattern      *regexp.Regexp
	requireTitle bool
}

// NewLabelledNameRule creates a labelled-name rule. When requireTitle is set,
// names without a following Title: line are dropped; otherwise they get
// UnknownTitle.
func NewLabelledNameRule(name string, pattern *regexp.Regexp, requireTitle bool) *LabelledNameRule {
	return &LabelledNameRule{name: name, pattern: pattern, requireTitle: requireTitle}
}

// Name returns the rule name.
func (r *LabelledNameRule) Name() string { return r.name }

// Match returns one pair per labelled name.
func (r *LabelledNameRule) Match(text string) []Pair {
	matches := r.pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	var pairs []Pair
	for _, m := range matches {
		if len(m) < 2 || m[1] == "" {
			continue
		}
		title, ok := titleAfter(text, m[1])
		if !ok {
			if r.requireTitle {
				continue
			}
			title = UnknownTitle
		}
		pairs = append(pairs, Pair{Name: m[1], Title: title})
	}
	return pairs
}

// titleAfter finds the first "Title: ..." line after the first occurrence of name.
func titleAfter(text, name string) (string, bool) {
	re, err := regexp.Compile(`(?s)` + regexp.QuoteMeta(name) + `.*?Title:\s+([^\n]+)`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
