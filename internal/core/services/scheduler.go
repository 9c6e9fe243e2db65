package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driving"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler re-runs analysis on a cron schedule.
// Runs never overlap: a tick that arrives while a run is in progress is skipped.
type Scheduler struct {
	schedule cron.Schedule
	analysis driving.AnalysisService
	opts     domain.AnalysisOptions
	onReport func(*domain.AnalysisReport)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler creates a scheduler for a standard cron spec such as
// "0 * * * *" or "@every 30m".
func NewScheduler(spec string, analysis driving.AnalysisService, opts domain.AnalysisOptions) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %v", domain.ErrInvalidInput, spec, err)
	}
	return &Scheduler{
		schedule: schedule,
		analysis: analysis,
		opts:     opts,
	}, nil
}

// SetOnReport registers a callback invoked after each successful run.
func (s *Scheduler) SetOnReport(fn func(*domain.AnalysisReport)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReport = fn
}

// Next returns the next run time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()
	defer close(doneCh)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))
	c.Schedule(s.schedule, cron.FuncJob(func() { s.runAnalysis(ctx) }))
	c.Start()
	logger.Info("Scheduler started, next run at %s", s.schedule.Next(time.Now()).Format(time.RFC3339))

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-stopCh:
	}

	// Wait for a running analysis to complete
	<-c.Stop().Done()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return err
}

// Stop gracefully shuts down the scheduler and waits for Start to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh
	return nil
}

func (s *Scheduler) runAnalysis(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := s.analysis.Analyze(ctx, s.opts)
	if err != nil {
		logger.Error("scheduled analysis failed: %v", err)
		return
	}
	logger.L().Info("scheduled analysis complete",
		zap.String("run_id", report.RunID),
		zap.Int("models", len(report.Order)),
		zap.Int("failures", len(report.Failures)))

	s.mu.Lock()
	fn := s.onReport
	s.mu.Unlock()
	if fn != nil {
		fn(report)
	}
}

// cronLogger routes cron's internal logging through the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.L().Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.L().Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
