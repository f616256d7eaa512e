package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Trigger fires reconciliation in the background. While a fired run is in
// flight further Fire calls are dropped.
type Trigger struct {
	rec     Reconciler
	log     *slog.Logger
	timeout time.Duration

	running atomic.Bool
	wg      sync.WaitGroup
}

func NewTrigger(rec Reconciler, log *slog.Logger, timeout time.Duration) *Trigger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Trigger{
		rec:     rec,
		log:     log,
		timeout: timeout,
	}
}

// Fire starts a run and returns immediately. The run outlives ctx's
// cancellation but keeps its values. It reports whether a run was started.
func (t *Trigger) Fire(ctx context.Context) bool {
	if !t.running.CompareAndSwap(false, true) {
		return false
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.running.Store(false)

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
		defer cancel()

		logResult(t.log, "reconcile trigger", t.rec.ReconcileAll(ctx))
	}()

	return true
}

// Wait blocks until every fired run has finished.
func (t *Trigger) Wait() {
	t.wg.Wait()
}

func logResult(log *slog.Logger, msg string, res Result) {
	if res.Success {
		log.Info(msg, slog.String("result", res.Message))
		return
	}
	log.Warn(msg+" failed", slog.String("result", res.Message))
}
