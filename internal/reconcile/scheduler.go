package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirinyoku/tixlife/internal/clock"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
)

// Scheduler runs reconciliation once on start and then every interval,
// independent of traffic.
type Scheduler struct {
	rec      Reconciler
	clk      clock.Clock
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

func NewScheduler(rec Reconciler, clk clock.Clock, interval, timeout time.Duration, log *slog.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Scheduler{
		rec:      rec,
		clk:      clk,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

// Run blocks until ctx is done. A non-positive interval disables the
// scheduler and Run returns at once.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.log.Info("reconcile scheduler disabled")
		return nil
	}

	s.log.Info("reconcile scheduler started", slog.Duration("interval", s.interval))

	tk := lifecycle.NewTicker(ctx, s.clk, s.interval)
	defer tk.Stop()

	for now := range tk.C {
		runCtx, cancel := context.WithTimeout(ctx, s.timeout)
		res := s.rec.ReconcileAll(runCtx)
		cancel()

		logResult(s.log.With(slog.Time("tick", now)), "scheduled reconcile", res)
	}

	s.log.Info("reconcile scheduler stopped")

	return nil
}
