package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/leadbench/internal/adapters/driving/rest"
	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/services"
)

// DefaultServeAddr is used when neither --addr nor configuration sets one.
const DefaultServeAddr = "0.0.0.0:8000"

var (
	serveAddrFlag string
	serveSchedule string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the enrichment HTTP API",
	Long: `Starts the HTTP API:

  GET  /          API information
  GET  /health    upstream service status (503 when degraded)
  POST /enrich    {"query": "..."} enrichment
  GET  /test      liveness check
  POST /extract   {"model_id": "...", "text": "..."} extract and score
  GET  /rankings  latest analysis ranking

When schedule.analyze is configured (or --schedule is given), stored
transcripts are re-analysed on that cron schedule while the server runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddrFlag, "addr", "a", "", "listen address (default HOST:PORT or "+DefaultServeAddr+")")
	serveCmd.Flags().StringVar(&serveSchedule, "schedule", "", `cron spec for periodic analysis, e.g. "@every 1h"`)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if enrichService == nil {
		return errors.New("enrich service not configured")
	}

	server, err := rest.NewServer(&rest.Ports{
		Enrich:   enrichService,
		Analysis: analysisService,
	}, version)
	if err != nil {
		return err
	}

	addr := serveAddrFlag
	if addr == "" {
		addr = serveAddr
	}
	if addr == "" {
		addr = DefaultServeAddr
	}

	spec := serveSchedule
	if spec == "" {
		spec = scheduleSpec
	}
	var scheduler *services.Scheduler
	if spec != "" && analysisService != nil {
		scheduler, err = services.NewScheduler(spec, analysisService, analysisDefaults)
		if err != nil {
			return err
		}
		scheduler.SetOnReport(func(r *domain.AnalysisReport) {
			if len(r.Rankings) > 0 {
				cmd.PrintErrf("Scheduled analysis %s: top model %s (%.1f)\n",
					r.RunID, r.Rankings[0].Model, r.Rankings[0].Score)
			}
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)
		return server.Run(ctx, addr)
	})
	if scheduler != nil {
		g.Go(func() error {
			if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
