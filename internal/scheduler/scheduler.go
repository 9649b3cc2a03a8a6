package scheduler

import (
	"context"
	"fmt"

	"StockFetcher/internal/runner"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler re-runs the download on a cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *runner.Runner
	Log    *zap.Logger
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler. Ticks that arrive while a run is
// still in progress are skipped so runs never overlap.
func NewScheduler(ctx context.Context, r *runner.Runner, log *zap.Logger) *Scheduler {
	cl := cronLogger{log: log.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Runner: r,
		Log:    log,
		Ctx:    ctx,
	}
}

// Register adds the download task under the given six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.fetchTask); err != nil {
		return fmt.Errorf("register fetch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the scheduler and waits for a running download to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow executes the download immediately (RUN_ON_START / first pass).
func (s *Scheduler) RunNow() *runner.Summary {
	return s.Runner.Run(s.Ctx)
}

func (s *Scheduler) fetchTask() {
	if s.Ctx.Err() != nil {
		return
	}
	s.Log.Info("running scheduled download")
	s.Runner.Run(s.Ctx)
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
