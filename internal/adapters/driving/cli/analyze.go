package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/logger"
)

var (
	analyzeJSON        bool
	analyzeConcurrency int
	analyzeNoStore     bool
	analyzeWatch       bool
)

// watchDebounce is how long watch mode waits for transcript writes to settle.
var watchDebounce = 500 * time.Millisecond

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score model transcripts against the benchmark",
	Long: `Extracts candidate contacts from every <model>_output.txt transcript,
reconciles them with the benchmark contacts, and ranks the models.

Results are written to analysis_results.json and model_rankings.json and the
run is recorded in history unless --no-store is given. With --watch the
analysis re-runs whenever a transcript is written or removed.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&transcriptDir, "dir", "d", "", "transcript directory (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", 0, "transcripts processed at once (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "do not record the run in history")
	analyzeCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "re-run when transcripts change")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errNoAnalysis
	}

	opts := analysisDefaults
	if analyzeConcurrency > 0 {
		opts.Concurrency = analyzeConcurrency
	}
	if analyzeNoStore {
		opts.SkipStore = true
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := analyzeOnce(ctx, cmd, opts); err != nil {
		return err
	}
	if !analyzeWatch {
		return nil
	}

	if transcriptWatch == nil {
		return errors.New("watch mode is not available for this transcript store")
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return watchAndAnalyze(ctx, cmd, opts)
}

func analyzeOnce(ctx context.Context, cmd *cobra.Command, opts domain.AnalysisOptions) error {
	report, err := analysisService.Analyze(ctx, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	for _, model := range report.Order {
		if r, ok := report.Results[model]; ok {
			p.modelSummary(model, r)
		}
	}
	p.failures(report.Failures)
	p.rankingTable(report.Rankings)
	return nil
}

// watchAndAnalyze re-runs the analysis after each burst of transcript
// changes. It returns when ctx is cancelled or the watcher stops.
func watchAndAnalyze(ctx context.Context, cmd *cobra.Command, opts domain.AnalysisOptions) error {
	changes, err := transcriptWatch.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching transcripts: %w", err)
	}
	cmd.PrintErrln("Watching for transcript changes (Ctrl+C to stop)...")

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case change, ok := <-changes:
			if !ok {
				if pending {
					timer.Stop()
					return analyzeOnce(ctx, cmd, opts)
				}
				return nil
			}
			logger.Debug("transcript %s %s", change.ModelID, change.Type)
			if pending {
				timer.Stop()
			}
			timer.Reset(watchDebounce)
			pending = true

		case <-timer.C:
			pending = false
			if err := analyzeOnce(ctx, cmd, opts); err != nil {
				logger.Error("%v", err)
			}
		}
	}
}
