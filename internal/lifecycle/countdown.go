package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/kirinyoku/tixlife/internal/domain"
)

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

const (
	// RenderWindow is the longest remaining time for which a sale countdown is shown.
	RenderWindow   = 24 * time.Hour
	CriticalWindow = 2 * time.Hour

	// Hold TTLs are minutes long, so holds get their own tiers.
	HoldUrgentWindow   = 5 * time.Minute
	HoldCriticalWindow = time.Minute

	// Expired is displayed in place of a hold countdown that has run out.
	Expired = "expired"
)

// Remaining returns target - now. ok is false when target <= now; negative
// durations are never returned.
func Remaining(target, now time.Time) (d time.Duration, ok bool) {
	d = target.Sub(now)
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// HoldRemaining is Remaining for a cart hold. A hold without an expiry has
// nothing remaining.
func HoldRemaining(h domain.CartHold, now time.Time) (time.Duration, bool) {
	if h.ExpiresAt == nil {
		return 0, false
	}
	return Remaining(*h.ExpiresAt, now)
}

func UrgencyTier(d time.Duration) Urgency {
	switch {
	case d <= CriticalWindow:
		return UrgencyCritical
	case d <= RenderWindow:
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// HoldUrgencyTier is UrgencyTier on the hold scale.
func HoldUrgencyTier(d time.Duration) Urgency {
	switch {
	case d <= HoldCriticalWindow:
		return UrgencyCritical
	case d <= HoldUrgentWindow:
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// ShouldRender reports whether a sale countdown of d may be shown at all.
func ShouldRender(d time.Duration) bool {
	return d <= RenderWindow
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatSaleCountdown renders d at day/hour/minute granularity:
// "2 days 3 hours", "5 hours 1 minute", "42 minutes".
func FormatSaleCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	days := int64(d / (24 * time.Hour))
	h := int64(d/time.Hour) % 24
	m := int64(d/time.Minute) % 60

	switch {
	case days >= 1:
		return plural(days, "day") + " " + plural(h, "hour")
	case h >= 1:
		return plural(h, "hour") + " " + plural(m, "minute")
	default:
		return plural(m, "minute")
	}
}

// FormatHoldCountdown renders d at second granularity: "HH:MM:SS" from one
// hour up, "MM:SS" below.
func FormatHoldCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	var b strings.Builder
	if h >= 1 {
		fmt.Fprintf(&b, "%02d:", h)
	}
	fmt.Fprintf(&b, "%02d:%02d", m, s)

	return b.String()
}

// Countdown is the derived, display-ready remaining time of a target.
type Countdown struct {
	Remaining time.Duration
	Urgency   Urgency
	Display   string
	// Render is false when the caller must not show the widget.
	Render bool
}

// SaleCountdown derives the "time until ticket sales close" countdown. ok is
// false once sales are closed.
func SaleCountdown(ev domain.EventSnapshot, now time.Time) (c Countdown, ok bool) {
	if IsSalesClosed(ev, now) {
		return Countdown{}, false
	}

	d, ok := Remaining(SaleClosesAt(ev), now)
	if !ok {
		return Countdown{}, false
	}

	return Countdown{
		Remaining: d,
		Urgency:   UrgencyTier(d),
		Display:   FormatSaleCountdown(d),
		Render:    ShouldRender(d),
	}, true
}

// HoldCountdown derives the "time until the cart hold is released"
// countdown. An expired or absent hold yields the Expired display with ok
// false.
func HoldCountdown(h domain.CartHold, now time.Time) (c Countdown, ok bool) {
	d, ok := HoldRemaining(h, now)
	if !ok {
		return Countdown{Urgency: UrgencyCritical, Display: Expired, Render: true}, false
	}

	return Countdown{
		Remaining: d,
		Urgency:   HoldUrgencyTier(d),
		Display:   FormatHoldCountdown(d),
		Render:    true,
	}, true
}
