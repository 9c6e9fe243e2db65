package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadbench/internal/core/services"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded analysis runs",
	Long:  `Lists recorded analysis runs, most recent first, with the top-ranked model of each.`,
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs (0 = all)")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "output runs as JSON")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errNoAnalysis
	}

	runs, err := analysisService.ListRuns(cmd.Context(), runsLimit)
	if services.IsHistoryDisabled(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if runsJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal runs: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No analysis runs recorded.")
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	p.println(p.header.Render(fmt.Sprintf("%-36s  %-19s  %6s  %s", "Run", "Started", "Models", "Top model")))
	for _, r := range runs {
		top := p.muted.Render("-")
		if r.Top != nil {
			top = fmt.Sprintf("%s (%.1f)", r.Top.Model, r.Top.Score)
		}
		p.printf("%-36s  %-19s  %6d  %s\n", r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Models, top)
	}
	return nil
}
