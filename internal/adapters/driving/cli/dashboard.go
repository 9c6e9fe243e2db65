package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui"
)

var dashboardNoWatch bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Browse the model ranking interactively",
	Long: `Opens a terminal dashboard with the current model ranking. Select a model
to see its contacts and which benchmark contacts it matched or missed.

The analysis re-runs when a transcript changes unless --no-watch is given,
and on demand with r.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVarP(&transcriptDir, "dir", "d", "", "transcript directory (default from config)")
	dashboardCmd.Flags().BoolVar(&dashboardNoWatch, "no-watch", false, "do not re-run when transcripts change")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ports := &tui.Ports{
		Analysis: analysisService,
		Options:  analysisDefaults,
	}
	if !dashboardNoWatch && transcriptWatch != nil {
		ports.Watcher = transcriptWatch
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.WithContext(ctx).Run()
}
