// Package lifecycle decides, from an event snapshot and an instant, whether
// ticket sales are open, what status the event effectively has, and how much
// time is left on a countdown. Every function is pure: the caller passes now.
package lifecycle

import (
	"math"
	"time"

	"github.com/kirinyoku/tixlife/internal/domain"
)

func hours(h float64) time.Duration {
	if h > MaxHours {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(h * float64(time.Hour))
}

// SaleClosesAt returns the instant ticket sales close. Without a closing
// offset sales stay open until the event starts. The result is never later
// than the start time.
func SaleClosesAt(ev domain.EventSnapshot) time.Time {
	if ev.TicketClosingOffsetHours == nil {
		return ev.StartTime
	}

	closes := ev.StartTime.Add(-hours(*ev.TicketClosingOffsetHours))
	if closes.After(ev.StartTime) {
		return ev.StartTime
	}

	return closes
}

// EventEndsAt returns StartTime + DurationHours.
func EventEndsAt(ev domain.EventSnapshot) time.Time {
	return ev.StartTime.Add(hours(ev.DurationHours))
}

func IsStarted(ev domain.EventSnapshot, now time.Time) bool {
	return !now.Before(ev.StartTime)
}

func IsEnded(ev domain.EventSnapshot, now time.Time) bool {
	return !now.Before(EventEndsAt(ev))
}

// IsSalesClosed reports whether ticket sales are closed at now. A started
// event is always closed, whatever its offset.
func IsSalesClosed(ev domain.EventSnapshot, now time.Time) bool {
	return IsStarted(ev, now) || !now.Before(SaleClosesAt(ev))
}
