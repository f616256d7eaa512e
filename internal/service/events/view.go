package events

import (
	"time"

	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
)

// EventView is an event as seen at one instant: the stored record plus
// everything the lifecycle rules derive from it.
type EventView struct {
	Event         domain.Event
	TotalBookings int

	// EffectiveStatus is what the event should display now. It can run ahead
	// of Event.Status until reconciliation persists the outcome.
	EffectiveStatus domain.Status

	SaleClosesAt time.Time
	EndsAt       time.Time
	Started      bool
	SalesClosed  bool

	// Countdown is set only while sales are open and the close is near
	// enough to show.
	Countdown *lifecycle.Countdown
}

// BuildView derives the view of e at now.
func BuildView(e domain.EventWithBookings, now time.Time) EventView {
	snap := e.Snapshot()

	v := EventView{
		Event:           e.Event,
		TotalBookings:   e.TotalBookings,
		EffectiveStatus: lifecycle.ResolveStatus(snap, now),
		SaleClosesAt:    lifecycle.SaleClosesAt(snap),
		EndsAt:          lifecycle.EventEndsAt(snap),
		Started:         lifecycle.IsStarted(snap, now),
		SalesClosed:     lifecycle.IsSalesClosed(snap, now),
	}

	if c, ok := lifecycle.SaleCountdown(snap, now); ok && c.Render {
		v.Countdown = &c
	}

	return v
}
