// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration in ~/.leadbench/config.toml with
//     environment overrides for API keys, model and listen address
//   - PromptStore: user-editable prompt templates with embedded defaults
//   - LoadBenchmark / LoadBenchmarkFile: ground-truth contacts from TOML,
//     YAML or JSON
//   - LoadModels: per-model generation settings from [[models]] tables
package file
