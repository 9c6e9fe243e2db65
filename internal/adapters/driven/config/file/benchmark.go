package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
)

// benchmarkFile is the on-disk shape shared by the TOML, YAML and JSON formats.
type benchmarkFile struct {
	Contacts []domain.BenchmarkEntry `toml:"contacts" yaml:"contacts" json:"contacts"`
}

// LoadBenchmarkFile reads a benchmark from path. The format is chosen by
// extension: .toml, .yaml/.yml or .json. A JSON file may also hold a bare
// array of entries.
func LoadBenchmarkFile(path string) (*domain.Benchmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark: %w", err)
	}

	var f benchmarkFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".json":
		if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(data, &f.Contacts)
		} else {
			err = json.Unmarshal(data, &f)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported benchmark format %q", domain.ErrInvalidInput, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse benchmark %s: %w", filepath.Base(path), err)
	}

	return domain.NewBenchmark(f.Contacts)
}

// LoadBenchmark resolves the benchmark from configuration.
// A benchmark.file setting wins (relative paths resolve against the config
// directory), then inline [[benchmark.contacts]] tables, then the built-in
// reference benchmark.
func LoadBenchmark(store driven.ConfigStore) (*domain.Benchmark, error) {
	if path := store.GetString(KeyBenchmarkFile); path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(store.Path()), path)
		}
		return LoadBenchmarkFile(path)
	}

	raw, ok := store.Get(KeyBenchmarkEntries)
	if !ok {
		return domain.DefaultBenchmark(), nil
	}
	tables, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an array of tables", domain.ErrInvalidInput, KeyBenchmarkEntries)
	}

	entries := make([]domain.BenchmarkEntry, 0, len(tables))
	for i, t := range tables {
		m, ok := t.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not a table", domain.ErrInvalidInput, KeyBenchmarkEntries, i)
		}
		name, _ := m["name"].(string)
		title, _ := m["title"].(string)
		entries = append(entries, domain.BenchmarkEntry{Name: name, Title: title})
	}
	return domain.NewBenchmark(entries)
}

// LoadModels reads [[models]] tables into per-model configs keyed by hosted
// id and short-id aliases. Nil maps mean nothing is configured.
//
//	[[models]]
//	id = "mistralai/mistral-large"
//	alias = "mistral_large"
//	max_tokens = 8192
//	use_json_mode = true
func LoadModels(store driven.ConfigStore) (map[string]domain.ModelConfig, map[string]string, error) {
	raw, ok := store.Get(KeyModels)
	if !ok {
		return nil, nil, nil
	}
	tables, ok := raw.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s must be an array of tables", domain.ErrInvalidInput, KeyModels)
	}

	configs := make(map[string]domain.ModelConfig, len(tables))
	aliases := make(map[string]string)
	for i, t := range tables {
		m, ok := t.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s[%d] is not a table", domain.ErrInvalidInput, KeyModels, i)
		}
		id, _ := m["id"].(string)
		if id == "" {
			return nil, nil, fmt.Errorf("%w: %s[%d] has no id", domain.ErrInvalidInput, KeyModels, i)
		}

		cfg := domain.ModelConfig{}
		switch v := m["max_tokens"].(type) {
		case int64:
			cfg.MaxTokens = int(v)
		case int:
			cfg.MaxTokens = v
		}
		cfg.JSONMode, _ = m["use_json_mode"].(bool)
		configs[id] = cfg

		if alias, _ := m["alias"].(string); alias != "" {
			aliases[alias] = id
		}
	}
	return configs, aliases, nil
}
