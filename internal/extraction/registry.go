package extraction

import (
	"fmt"
	"regexp"
	"sort"
)

// DefaultGroupID is the registry key used for unrecognised model ids.
const DefaultGroupID = "default"

// RuleBuilder creates a Rule from generic config.
// Config is a map of rule-specific settings parsed from user config.
type RuleBuilder func(cfg map[string]any) (Rule, error)

// Registry maps model ids to strategy groups.
// Lookups for unregistered ids fall back to the default group.
type Registry struct {
	groups   map[string]*Group
	builders map[string]RuleBuilder
}

// NewRegistry creates an empty registry with the built-in rule kinds.
func NewRegistry() *Registry {
	r := &Registry{
		groups:   make(map[string]*Group),
		builders: make(map[string]RuleBuilder),
	}
	r.RegisterRuleKind("pattern", buildPatternRule)
	r.RegisterRuleKind("labelled_name", buildLabelledNameRule)
	return r
}

// Register binds a strategy group to one or more model ids.
// A later registration for the same id replaces the earlier one.
func (r *Registry) Register(group *Group, modelIDs ...string) {
	for _, id := range modelIDs {
		r.groups[id] = group
	}
}

// SetDefault sets the group used for unrecognised model ids.
func (r *Registry) SetDefault(group *Group) {
	r.groups[DefaultGroupID] = group
}

// Lookup returns the group for modelID, falling back to the default group.
// It returns nil only when neither exists.
func (r *Registry) Lookup(modelID string) *Group {
	if g, ok := r.groups[modelID]; ok {
		return g
	}
	return r.groups[DefaultGroupID]
}

// Has returns true if modelID has its own group.
func (r *Registry) Has(modelID string) bool {
	_, ok := r.groups[modelID]
	return ok
}

// Names returns all registered model ids, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterRuleKind adds a builder for a configurable rule kind.
func (r *Registry) RegisterRuleKind(kind string, builder RuleBuilder) {
	r.builders[kind] = builder
}

// BuildRule creates a rule of the given kind from config.
func (r *Registry) BuildRule(kind string, cfg map[string]any) (Rule, error) {
	builder, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown rule kind: %s", kind)
	}
	return builder(cfg)
}

// Configure registers groups described by config, typically the
// [[extraction.groups]] array from config.toml:
//
//	[[extraction.groups]]
//	name = "mistral"
//	models = ["mistral_large"]
//	[[extraction.groups.rules]]
//	kind = "pattern"
//	name = "dash_list"
//	pattern = '(?m)^\d+\.\s+([A-Z][a-z]+ [A-Z][a-z]+)\s*-\s*([^\n]+)'
func (r *Registry) Configure(groups []any) error {
	for i, raw := range groups {
		gcfg, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("extraction group %d: expected table", i)
		}
		name := getStringFromConfig(gcfg, "name")
		if name == "" {
			name = fmt.Sprintf("group_%d", i)
		}
		group := NewGroup(name)

		rules, _ := gcfg["rules"].([]any)
		for j, rawRule := range rules {
			rcfg, ok := rawRule.(map[string]any)
			if !ok {
				return fmt.Errorf("group %s rule %d: expected table", name, j)
			}
			rule, err := r.BuildRule(getStringFromConfig(rcfg, "kind"), rcfg)
			if err != nil {
				return fmt.Errorf("group %s rule %d: %w", name, j, err)
			}
			group.Add(rule)
		}

		models := getStringsFromConfig(gcfg, "models")
		if len(models) == 0 {
			return fmt.Errorf("group %s: no models listed", name)
		}
		r.Register(group, models...)
	}
	return nil
}

func buildPatternRule(cfg map[string]any) (Rule, error) {
	re, err := compileFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewPatternRule(getStringFromConfig(cfg, "name"), re), nil
}

func buildLabelledNameRule(cfg map[string]any) (Rule, error) {
	re, err := compileFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	require, _ := cfg["require_title"].(bool)
	return NewLabelledNameRule(getStringFromConfig(cfg, "name"), re, require), nil
}

func compileFromConfig(cfg map[string]any) (*regexp.Regexp, error) {
	expr := getStringFromConfig(cfg, "pattern")
	if expr == "" {
		return nil, fmt.Errorf("pattern is required")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern must capture the name in group 1")
	}
	return re, nil
}

// getStringFromConfig safely extracts a string from generic config map.
func getStringFromConfig(cfg map[string]any, key string) string {
	s, _ := cfg[key].(string)
	return s
}

// getStringsFromConfig extracts a string list, handling the []any
// shape produced by TOML/JSON parsing.
func getStringsFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}
