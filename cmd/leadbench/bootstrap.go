package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/custodia-labs/leadbench/internal/adapters/driven/artifacts/jsonfile"
	"github.com/custodia-labs/leadbench/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leadbench/internal/adapters/driven/llm/openrouter"
	"github.com/custodia-labs/leadbench/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/leadbench/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/leadbench/internal/adapters/driven/transcripts/filesystem"
	"github.com/custodia-labs/leadbench/internal/adapters/driven/websearch/exa"
	"github.com/custodia-labs/leadbench/internal/adapters/driving/cli"
	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
	"github.com/custodia-labs/leadbench/internal/core/services"
	"github.com/custodia-labs/leadbench/internal/extraction"
	"github.com/custodia-labs/leadbench/internal/logger"
	"github.com/custodia-labs/leadbench/internal/scoring"
)

// defaultTranscriptDir is where transcripts live when nothing is configured.
const defaultTranscriptDir = "."

// bootstrap wires the driven adapters into the core services.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*cli.Services, error) {
		_ = closeAll()
		return nil, err
	}

	// Configuration
	var config driven.ConfigStore
	if opts.NoConfig {
		store := memory.NewConfigStore()
		if err := file.ApplyEnv(store, os.Getenv); err != nil {
			return nil, err
		}
		config = store
	} else {
		store, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		config = store
	}

	if enc := config.GetString(file.KeyLogEncoding); enc != "" {
		if err := logger.SetEncoding(enc); err != nil {
			return nil, err
		}
	}

	benchmark, err := file.LoadBenchmark(config)
	if err != nil {
		return nil, fmt.Errorf("loading benchmark: %w", err)
	}
	configs, aliases, err := file.LoadModels(config)
	if err != nil {
		return nil, fmt.Errorf("loading models: %w", err)
	}
	models := services.NewModelTable(nil, nil).Overlay(configs, aliases)

	// Extraction
	registry := extraction.NewRegistry()
	extraction.RegisterDefaults(registry)
	if raw, ok := config.Get(file.KeyExtractionGroups); ok {
		groups, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be an array of tables", domain.ErrInvalidInput, file.KeyExtractionGroups)
		}
		if err := registry.Configure(groups); err != nil {
			return nil, fmt.Errorf("configuring extraction: %w", err)
		}
	}
	sentinel := extraction.DefaultSentinel
	if _, ok := config.Get(file.KeySentinel); ok {
		sentinel = config.GetString(file.KeySentinel)
	}
	extractor := extraction.New(registry, benchmark, extraction.WithSentinel(sentinel))
	structured := extraction.NewStructuredExtractor(
		extraction.NewSectionParser(extraction.ReferenceDefaults(), sentinel))

	// Transcripts and artifacts
	dir := opts.TranscriptDir
	if dir == "" {
		dir = config.GetString(file.KeyTranscriptDir)
	}
	if dir == "" {
		dir = defaultTranscriptDir
	}
	artifactDir := config.GetString(file.KeyArtifactDir)
	if artifactDir == "" {
		artifactDir = dir
	}
	transcripts := filesystem.New(dir)
	closers = append(closers, transcripts.Close)
	artifacts := jsonfile.New(artifactDir)

	// Run history
	results, err := openResults(opts, config)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, results.Close)

	analysis := services.NewAnalysisService(transcripts, extractor, structured, benchmark, results, artifacts)
	analysis.SetWeights(weights(config))

	// Upstream clients are optional; enrichment reports what is missing.
	var llm driven.LLMService
	if key := config.GetString(file.KeyOpenRouterAPIKey); key != "" {
		svc, err := openrouter.NewLLMService(openrouter.LLMConfig{
			APIKey:  key,
			BaseURL: config.GetString(file.KeyOpenRouterURL),
			Model:   resolveDefaultModel(models, config.GetString(file.KeyDefaultModel)),
		})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, svc.Close)
		llm = svc
	}
	var search driven.WebSearcher
	if key := config.GetString(file.KeyExaAPIKey); key != "" {
		svc, err := exa.New(exa.Config{APIKey: key, BaseURL: config.GetString(file.KeyExaURL)})
		if err != nil {
			return fail(err)
		}
		search = svc
	}

	// Live queries never see the benchmark.
	enrichExtractor := extraction.New(registry, nil, extraction.WithSentinel(sentinel))
	enrich := services.NewEnrichService(llm, search, models, enrichExtractor)
	enrich.SetVersion(opts.Version)
	if !opts.NoConfig {
		prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(config.Path()), "prompts"))
		if err != nil {
			return fail(err)
		}
		enrich.SetPromptStore(prompts)
	}

	capture := services.NewCaptureService(enrich, transcripts, artifacts, models)
	timeout, err := duration(config, file.KeyCaptureTimeout)
	if err != nil {
		return fail(err)
	}
	pause, err := duration(config, file.KeyCapturePause)
	if err != nil {
		return fail(err)
	}
	capture.SetDefaults(timeout, pause)

	return &cli.Services{
		Analysis: analysis,
		Enrich:   enrich,
		Capture:  capture,
		Watcher:  transcripts,
		Schedule: config.GetString(file.KeyScheduleAnalyze),
		Addr:     serveAddr(config),
		Defaults: domain.AnalysisOptions{Concurrency: config.GetInt(file.KeyConcurrency)},
		Close:    closeAll,
	}, nil
}

// openResults opens the SQLite history next to the config file. Without a
// config directory, or when the database cannot be opened, history is kept
// in memory for the life of the process.
func openResults(opts cli.Options, config driven.ConfigStore) (driven.ResultStore, error) {
	if opts.NoConfig {
		return memory.NewResultStore(), nil
	}
	store, err := sqlite.NewStore(filepath.Join(filepath.Dir(config.Path()), "data"))
	if err != nil {
		logger.Warn("Run history unavailable, using memory: %v", err)
		return memory.NewResultStore(), nil
	}
	return store.ResultStore(), nil
}

// weights overlays configured scoring weights on the defaults.
func weights(config driven.ConfigStore) scoring.Weights {
	w := scoring.DefaultWeights()
	if _, ok := config.Get(file.KeyWeightAccuracy); ok {
		w.Accuracy = config.GetFloat(file.KeyWeightAccuracy)
	}
	if _, ok := config.Get(file.KeyWeightContact); ok {
		w.Contact = config.GetFloat(file.KeyWeightContact)
	}
	if _, ok := config.Get(file.KeyWeightExtra); ok {
		w.Extra = config.GetFloat(file.KeyWeightExtra)
	}
	return w
}

// resolveDefaultModel maps a configured alias to its hosted id.
func resolveDefaultModel(models *services.ModelTable, id string) string {
	if id == "" {
		return ""
	}
	hosted, _ := models.Resolve(id)
	return hosted
}

// duration reads a Go duration string such as "90s". Unset gives zero.
func duration(config driven.ConfigStore, key string) (time.Duration, error) {
	s := config.GetString(key)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	return d, nil
}

// serveAddr joins server.host and server.port. Either may be unset.
func serveAddr(config driven.ConfigStore) string {
	host := config.GetString(file.KeyServerHost)
	port := config.GetInt(file.KeyServerPort)
	if host == "" && port == 0 {
		return ""
	}
	if host == "" {
		host = "0.0.0.0"
	}
	if port == 0 {
		port = 8000
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
