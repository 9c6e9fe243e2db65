package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
)

var (
	enrichJSON  bool
	enrichModel string

	captureModels  []string
	captureTimeout time.Duration
	capturePause   time.Duration
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <query>",
	Short: "Find decision-makers for a business",
	Long: `Searches the web for the business in the query and asks a hosted model
to identify its current decision-makers and their contact details.

Requires OPENROUTER_API_KEY. EXA_API_KEY adds web search context.

Example:
  leadbench enrich "superintendent at pebblebeach.com"`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

var captureCmd = &cobra.Command{
	Use:   "capture <query>",
	Short: "Run a query against several models and save the transcripts",
	Long: `Runs the enrichment prompt against each model in turn and saves every reply
as <model>_output.txt for later analysis. A reply containing a JSON object is
also saved as <model>_output.json. A summary is written to test_summary.json.

Models default to the configured model table.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichJSON, "json", false, "output the result as JSON")
	enrichCmd.Flags().StringVarP(&enrichModel, "model", "m", "", "model id or alias (default from config)")
	rootCmd.AddCommand(enrichCmd)

	captureCmd.Flags().StringSliceVar(&captureModels, "models", nil, "comma-separated model ids (default all configured)")
	captureCmd.Flags().DurationVar(&captureTimeout, "timeout", 0, "per-model timeout (default 5m)")
	captureCmd.Flags().DurationVar(&capturePause, "pause", 0, "pause between models (default 2s, negative disables)")
	rootCmd.AddCommand(captureCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if enrichService == nil {
		return fmt.Errorf("enrich: %w", domain.ErrLLMUnavailable)
	}

	result, err := enrichService.EnrichWithModel(cmd.Context(), args[0], enrichModel)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	if enrichJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	p.println(p.title.Render("Query: " + result.Query))
	p.println(p.muted.Render(fmt.Sprintf("Model %s, %.1fs, request %s",
		result.Model, result.ProcessingTime.Seconds(), result.RequestID)))
	if !result.Structured {
		p.println(p.warning.Render("Reply was not a complete record; contacts were recovered from text."))
	}
	p.println("")
	printLeadRecord(p, result.Results)
	return nil
}

func runCapture(cmd *cobra.Command, args []string) error {
	if captureService == nil {
		return fmt.Errorf("capture: %w", domain.ErrLLMUnavailable)
	}

	run, err := captureService.Capture(cmd.Context(), args[0], captureModels, driving.CaptureOptions{
		Timeout: captureTimeout,
		Pause:   capturePause,
	})
	if run != nil {
		printCaptureRun(newPrinter(cmd.OutOrStdout()), run)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("capture failed: %w", err)
	}
	return nil
}

func printCaptureRun(p *printer, run *domain.CaptureRun) {
	models := make([]string, 0, len(run.Models))
	for m := range run.Models {
		models = append(models, m)
	}
	sort.Strings(models)

	succeeded := 0
	for _, m := range models {
		r := run.Models[m]
		var status string
		switch r.Status {
		case domain.CaptureSuccess:
			succeeded++
			status = p.success.Render("✓ success")
		case domain.CaptureTimeout:
			status = p.warning.Render("⏱ timeout")
		default:
			status = p.failure.Render("✗ error")
		}
		p.printf("%-16s %s %6.1fs", m, status, r.DurationSeconds)
		if r.JSONFound {
			p.printf(" %s", p.muted.Render("json"))
		}
		if r.Error != "" {
			p.printf(" %s", p.muted.Render(r.Error))
		}
		p.println("")
	}
	p.printf("\n%d/%d models succeeded.\n", succeeded, len(models))
}
