package lifecycle

import (
	"context"
	"time"

	"github.com/kirinyoku/tixlife/internal/clock"
)

const (
	HoldTickInterval = time.Second
	SaleTickInterval = time.Minute
)

// Ticker delivers a fresh clock reading immediately and then once per
// interval. Each reading comes from the clock, so missed or late ticks never
// skew the countdown. C is closed once the ticker stops.
type Ticker struct {
	C <-chan time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker starts a ticker bound to ctx: cancelling ctx stops it, as does
// Stop. interval must be positive.
func NewTicker(ctx context.Context, clk clock.Clock, interval time.Duration) *Ticker {
	ctx, cancel := context.WithCancel(ctx)
	c := make(chan time.Time)

	t := &Ticker{
		C:      c,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go t.run(ctx, c, clk, interval)

	return t
}

func (t *Ticker) run(ctx context.Context, c chan<- time.Time, clk clock.Clock, interval time.Duration) {
	defer close(t.done)
	defer close(c)

	tk := time.NewTicker(interval)
	defer tk.Stop()

	send := func() bool {
		select {
		case c <- clk.Now():
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !send() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			if !send() {
				return
			}
		}
	}
}

// Stop stops the ticker and waits until C is closed. It is safe to call
// more than once.
func (t *Ticker) Stop() {
	t.cancel()
	<-t.done
}
