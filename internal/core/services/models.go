package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// DefaultModelKey is the model table entry used for unlisted models.
const DefaultModelKey = "default"

// DefaultModel is the hosted model used when none is configured.
const DefaultModel = "anthropic/claude-sonnet-4"

// ModelTable resolves model ids to upstream ids and generation settings.
//
// Aliases map the short ids used for transcripts (claude_sonnet_4) to hosted
// model ids (anthropic/claude-sonnet-4). Configs are keyed by hosted id.
type ModelTable struct {
	configs map[string]domain.ModelConfig
	aliases map[string]string
}

// NewModelTable creates a table. Nil maps use the built-in defaults.
func NewModelTable(configs map[string]domain.ModelConfig, aliases map[string]string) *ModelTable {
	if configs == nil {
		configs = DefaultModelConfigs()
	}
	if _, ok := configs[DefaultModelKey]; !ok {
		configs[DefaultModelKey] = DefaultModelConfigs()[DefaultModelKey]
	}
	if aliases == nil {
		aliases = DefaultModelAliases()
	}
	return &ModelTable{configs: configs, aliases: aliases}
}

// Resolve returns the hosted id and settings for id, which may be an alias
// or a hosted id. Unknown ids get the default settings.
func (t *ModelTable) Resolve(id string) (string, domain.ModelConfig) {
	upstream := id
	if alias, ok := t.aliases[id]; ok {
		upstream = alias
	}
	if cfg, ok := t.configs[upstream]; ok {
		return upstream, cfg
	}
	return upstream, t.configs[DefaultModelKey]
}

// Lookup is Resolve for ids supplied by a caller. An id that is neither an
// alias nor a hosted "vendor/model" id is rejected with ErrUnknownModel.
func (t *ModelTable) Lookup(id string) (string, domain.ModelConfig, error) {
	if _, ok := t.aliases[id]; !ok && !strings.Contains(id, "/") {
		return "", domain.ModelConfig{}, fmt.Errorf("%w: %q", domain.ErrUnknownModel, id)
	}
	upstream, cfg := t.Resolve(id)
	return upstream, cfg, nil
}

// Overlay returns a copy of t with configs and aliases added on top.
// Entries in the overlay replace entries with the same key.
func (t *ModelTable) Overlay(configs map[string]domain.ModelConfig, aliases map[string]string) *ModelTable {
	out := &ModelTable{
		configs: make(map[string]domain.ModelConfig, len(t.configs)+len(configs)),
		aliases: make(map[string]string, len(t.aliases)+len(aliases)),
	}
	for k, v := range t.configs {
		out.configs[k] = v
	}
	for k, v := range configs {
		out.configs[k] = v
	}
	for k, v := range t.aliases {
		out.aliases[k] = v
	}
	for k, v := range aliases {
		out.aliases[k] = v
	}
	return out
}

// Aliases returns the short model ids, sorted.
func (t *ModelTable) Aliases() []string {
	out := make([]string, 0, len(t.aliases))
	for k := range t.aliases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultModelConfigs returns generation settings for well-known hosted models.
func DefaultModelConfigs() map[string]domain.ModelConfig {
	large := domain.ModelConfig{MaxTokens: 65000, JSONMode: true}
	return map[string]domain.ModelConfig{
		"anthropic/claude-3.5-sonnet": large,
		"anthropic/claude-3-opus":     large,
		"anthropic/claude-3-haiku":    large,
		"anthropic/claude-sonnet-4":   large,
		"anthropic/claude-opus-4":     large,

		"openai/gpt-4":         {MaxTokens: 8192, JSONMode: true},
		"openai/gpt-4-turbo":   {MaxTokens: 16384, JSONMode: true},
		"openai/gpt-4o":        {MaxTokens: 16384, JSONMode: true},
		"openai/gpt-4o-mini":   {MaxTokens: 16384, JSONMode: true},
		"openai/gpt-3.5-turbo": {MaxTokens: 16384, JSONMode: true},

		"google/gemini-2.0-flash-exp": {MaxTokens: 8192},
		"google/gemini-2.5-flash":     {MaxTokens: 8192},
		"google/gemini-2.5-pro":       {MaxTokens: 65000},
		"google/gemini-1.5-pro":       {MaxTokens: 8192},
		"google/gemini-1.5-flash":     {MaxTokens: 8192},

		"meta-llama/llama-3.1-405b-instruct": {MaxTokens: 8192, JSONMode: true},
		"meta-llama/llama-3.1-70b-instruct":  {MaxTokens: 8192, JSONMode: true},
		"mistralai/mistral-large":            {MaxTokens: 8192, JSONMode: true},
		"mistralai/mixtral-8x7b-instruct":    {MaxTokens: 8192, JSONMode: true},

		DefaultModelKey: {MaxTokens: 8192},
	}
}

// DefaultModelAliases returns the short ids of the benchmarked model set.
func DefaultModelAliases() map[string]string {
	return map[string]string{
		"claude_sonnet_4": "anthropic/claude-sonnet-4",
		"kimi_k2":         "moonshotai/kimi-k2",
		"gemini_flash":    "google/gemini-2.5-flash",
		"gemini_pro":      "google/gemini-2.5-pro",
		"deepseek_r1":     "deepseek/deepseek-r1",
		"qwen3":           "qwen/qwen3-235b-a22b",
		"glm_4_5":         "z-ai/glm-4.5",
	}
}
