package file

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// DefaultDirName is the configuration directory under the user's home.
const DefaultDirName = ".leadbench"

// Configuration keys.
const (
	KeyOpenRouterAPIKey = "openrouter.api_key"
	KeyOpenRouterURL    = "openrouter.base_url"
	KeyExaAPIKey        = "exa.api_key"
	KeyExaURL           = "exa.base_url"
	KeyDefaultModel     = "llm.model"
	KeyServerHost       = "server.host"
	KeyServerPort       = "server.port"

	KeyTranscriptDir    = "analysis.transcript_dir"
	KeyArtifactDir      = "analysis.artifact_dir"
	KeyConcurrency      = "analysis.concurrency"
	KeyScheduleAnalyze  = "schedule.analyze"
	KeySentinel         = "extraction.sentinel"
	KeyExtractionGroups = "extraction.groups"
	KeyBenchmarkFile    = "benchmark.file"
	KeyBenchmarkEntries = "benchmark.contacts"
	KeyModels           = "models"
	KeyWeightAccuracy   = "scoring.weights.accuracy"
	KeyWeightContact    = "scoring.weights.contact"
	KeyWeightExtra      = "scoring.weights.extra"
	KeyCaptureTimeout   = "capture.timeout"
	KeyCapturePause     = "capture.pause"
	KeyLogEncoding      = "log.encoding"
)

// envOverrides maps environment variables onto configuration keys.
// A set variable wins over the file and is never written back to it.
var envOverrides = map[string]string{
	"OPENROUTER_API_KEY": KeyOpenRouterAPIKey,
	"EXA_API_KEY":        KeyExaAPIKey,
	"DEFAULT_MODEL":      KeyDefaultModel,
	"HOST":               KeyServerHost,
	"PORT":               KeyServerPort,
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Configuration is stored in config.toml within the leadbench config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
	getenv   func(string) string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.leadbench/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, DefaultDirName)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
		getenv:   os.Getenv,
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Get retrieves a configuration value by key.
// Environment overrides take precedence over the file.
func (s *ConfigStore) Get(key string) (any, bool) {
	if v, ok := s.envValue(key); ok {
		return v, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

func (s *ConfigStore) envValue(key string) (string, bool) {
	if s.getenv == nil {
		return "", false
	}
	for env, k := range envOverrides {
		if k != key {
			continue
		}
		if v := s.getenv(env); v != "" {
			return v, true
		}
	}
	return "", false
}

// ApplyEnv copies the environment overrides into store. It is used for
// stores that do not read the environment themselves, such as the in-memory
// store behind --no-config. Values are stored as the raw strings.
func ApplyEnv(store driven.ConfigStore, getenv func(string) string) error {
	for env, key := range envOverrides {
		v := getenv(env)
		if v == "" {
			continue
		}
		if err := store.Set(key, v); err != nil {
			return err
		}
	}
	return nil
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
// Numeric strings, as set through the environment, are converted.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// GetFloat retrieves a float configuration value. Integers are converted.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}

	b, ok := val.(bool)
	if !ok {
		return false
	}
	return b
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}

	// TOML arrays are parsed as []any
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}

	// Write with restricted permissions, the file holds API keys
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	// Arrays of tables such as [[models]] stay as []any under their key.
	s.data = flattenMap(loaded, "")
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Dir returns the configuration directory.
func (s *ConfigStore) Dir() string {
	return filepath.Dir(s.filePath)
}
