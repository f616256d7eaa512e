package httpgin

import (
	"context"
	"sync"

	redisrepo "github.com/kirinyoku/tixlife/internal/repository/redis"
)

// EventHub fans "event changed" notifications out to open countdown
// streams, so every instance holds one Redis subscription instead of one per
// client.
type EventHub struct {
	mu   sync.Mutex
	subs map[int64]map[chan struct{}]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[int64]map[chan struct{}]struct{})}
}

// Notify wakes every listener of msg.EventID. Its signature matches
// EventsPubSub.Subscribe's handler.
func (h *EventHub) Notify(_ context.Context, msg redisrepo.EventChanged) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[msg.EventID] {
		select {
		case ch <- struct{}{}:
		default:
			// A wakeup is already pending.
		}
	}
}

// Listen registers interest in eventID. The returned stop func must be called
// once the listener is done.
func (h *EventHub) Listen(eventID int64) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[eventID] == nil {
		h.subs[eventID] = make(map[chan struct{}]struct{})
	}
	h.subs[eventID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			delete(h.subs[eventID], ch)
			if len(h.subs[eventID]) == 0 {
				delete(h.subs, eventID)
			}
		})
	}
}
