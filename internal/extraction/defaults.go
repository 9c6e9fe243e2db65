package extraction

import "regexp"

// personName matches two or three capitalised words.
// Words are joined by horizontal whitespace only so a capture never spans lines.
//
// The separator and dash rules below use [ \t] where a \s pattern would also
// cross newlines. "Jane Doe,\nManager" therefore yields no pair for the
// separator rule, and scores differ from a \s rule set on such layouts.
const personName = `[A-Z][a-z]+ [A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)?`

var (
	// "1. Trey Parker - Current Vice President"
	dashListPattern = regexp.MustCompile(
		`(?m)(?:^\d+\.\s+)?(` + personName + `)[ \t]*[-–][ \t]*(?:Current\s+)?([^(\n]+)`)

	// "- Name: Trey Parker"
	bareNamePattern = regexp.MustCompile(`(?:-\s+)?Name:\s+(` + personName + `)`)

	// "Contact Name: Trey Parker"
	contactNamePattern = regexp.MustCompile(`(?:Contact\s+)?Name:\s*(` + personName + `)`)

	// "Trey Parker, Superintendent" / "Trey Parker: Superintendent"
	separatorPairPattern = regexp.MustCompile(
		`(?m)(?:^\d+\.\s+)?(` + personName + `)[ \t]*(?:,|:|-)[ \t]*([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*)`)

	// "Superintendent: Trey Parker"
	roleHeaderPattern = regexp.MustCompile(
		`(?:Manager|Superintendent|Professional|President|Director):\s*(` + personName + `)`)

	// "Person: Trey Parker"
	personLabelPattern = regexp.MustCompile(`(?:Contact|Name|Person):\s*(` + personName + `)`)

	// "Trey Parker - Head Pro"
	dashPairPattern = regexp.MustCompile(
		`(` + personName + `)[ \t]*-[ \t]*([A-Z][a-z]+ ?[A-Z]?[a-z]*(?:[ \t]+[A-Z][a-z]+)*)`)

	// "• Trey Parker (Superintendent)"
	bulletPattern = regexp.MustCompile(`•[ \t]*(` + personName + `)[ \t]*(?:\(|,|-)[ \t]*([^)\n]+)`)

	// "2. Trey Parker – Superintendent" at line start only
	numberedDashPattern = regexp.MustCompile(
		`(?m)^[ \t]*\d+\.[ \t]+(` + personName + `)[ \t]*[-–][ \t]*([^(\n]+)`)
)

// Built-in strategy group names.
const (
	GroupClaude  = "claude"
	GroupLabeled = "labeled"
	GroupGoogle  = "google"
	GroupGeneric = "generic"
)

// RegisterDefaults registers all built-in strategy groups with the registry.
// Call this during application initialisation, before Configure.
func RegisterDefaults(r *Registry) {
	r.Register(ClaudeGroup(), "claude_sonnet_4")
	r.Register(LabeledGroup(), "deepseek_r1", "kimi_k2", "qwen3")
	r.Register(GoogleGroup(), "gemini_flash", "gemini_pro", "glm_4_5")
	r.SetDefault(GenericGroup())
}

// ClaudeGroup handles numbered "Name - Title" lists and Name:/Title: blocks.
func ClaudeGroup() *Group {
	return NewGroup(GroupClaude,
		NewPatternRule("dash_list", dashListPattern),
		NewLabelledNameRule("name_field", bareNamePattern, true),
	)
}

// LabeledGroup handles "Name:" fields, "Name, Title" pairs, and role headers.
func LabeledGroup() *Group {
	return NewGroup(GroupLabeled,
		NewPatternRule("contact_name", contactNamePattern),
		NewPatternRule("separator_pair", separatorPairPattern),
		NewPatternRule("role_header", roleHeaderPattern),
	)
}

// GoogleGroup handles person labels, dash pairs, and bullet lists.
func GoogleGroup() *Group {
	return NewGroup(GroupGoogle,
		NewPatternRule("person_label", personLabelPattern),
		NewPatternRule("dash_pair", dashPairPattern),
		NewPatternRule("bullet", bulletPattern),
	)
}

// GenericGroup is the fallback for unrecognised model ids.
func GenericGroup() *Group {
	return NewGroup(GroupGeneric,
		NewLabelledNameRule("contact_name", contactNamePattern, false),
		NewPatternRule("numbered_dash", numberedDashPattern),
	)
}
