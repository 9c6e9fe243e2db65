// Package cli provides the leadbench command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	noConfig  bool
)

// transcriptDir is shared by the commands that take --dir.
var transcriptDir string

// Services wired by the bootstrap. Commands check for nil before use.
var (
	analysisService  driving.AnalysisService
	enrichService    driving.EnrichService
	captureService   driving.CaptureService
	transcriptWatch  driven.TranscriptWatcher
	scheduleSpec     string
	serveAddr        string
	analysisDefaults domain.AnalysisOptions
	closeServices    func() error
)

// Services holds the application services made available to commands.
// Only Analysis is required; the others enable their commands.
type Services struct {
	Analysis driving.AnalysisService
	Enrich   driving.EnrichService
	Capture  driving.CaptureService
	Watcher  driven.TranscriptWatcher

	// Schedule is the cron spec for periodic analysis while serving.
	Schedule string

	// Addr is the default listen address for serve.
	Addr string

	// Analysis defaults, such as concurrency, from configuration.
	Defaults domain.AnalysisOptions

	// Close releases stores and clients.
	Close func() error
}

// Options are the global flag values handed to a Bootstrap.
type Options struct {
	ConfigDir     string
	NoConfig      bool
	TranscriptDir string
	Version       string
}

// Bootstrap builds the services for a command invocation.
type Bootstrap func(opts Options) (*Services, error)

// bootstrap is nil in tests, where services are set directly.
var bootstrap Bootstrap

var rootCmd = &cobra.Command{
	Use:   "leadbench",
	Short: "Benchmark lead-enrichment models against known contacts",
	Long: `leadbench captures contact-research replies from hosted language models,
extracts the people each model found, and scores them against a benchmark
of known decision-makers to rank the models.

It can also run enrichment queries directly, serve them over HTTP, and
expose extraction and scoring to AI assistants over MCP.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initialise,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("closing services: %v", err)
			}
			closeServices = nil
		}
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.leadbench)")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore the configuration file and use defaults")
}

// initialise configures logging and wires services before any command runs.
func initialise(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	// version and help never need services.
	if cmd == versionCmd || bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(Options{
		ConfigDir:     configDir,
		NoConfig:      noConfig,
		TranscriptDir: transcriptDir,
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(svc)
	return nil
}

// SetServices installs the services used by commands.
func SetServices(svc *Services) {
	if svc == nil {
		svc = &Services{}
	}
	analysisService = svc.Analysis
	enrichService = svc.Enrich
	captureService = svc.Capture
	transcriptWatch = svc.Watcher
	scheduleSpec = svc.Schedule
	serveAddr = svc.Addr
	analysisDefaults = svc.Defaults
	closeServices = svc.Close
}

// Execute runs the root command with the given build version and bootstrap.
// It exits the process with status 1 on failure.
func Execute(buildVersion string, b Bootstrap) {
	if buildVersion != "" {
		version = buildVersion
	}
	bootstrap = b

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// errNoAnalysis is returned by commands that need the analysis service.
var errNoAnalysis = errors.New("analysis service not configured")
