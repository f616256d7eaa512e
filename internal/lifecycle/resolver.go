package lifecycle

import (
	"fmt"
	"time"

	"github.com/kirinyoku/tixlife/internal/domain"
)

// ThresholdMet reports whether the event has enough reserved seats to take
// place. A zero minimum is always met.
func ThresholdMet(ev domain.EventSnapshot) bool {
	return ev.MinimumSeats == 0 || ev.TotalBookings >= ev.MinimumSeats
}

// ResolveStatus returns the effective status of the event at now.
//
// Completed and cancelled are returned unchanged. While sales are open the
// persisted status is returned unchanged. Once sales close, an upcoming event
// becomes completed when its seat threshold is met and cancelled otherwise;
// an ongoing event is left for the reconciliation job to finalize.
//
// The decision is recomputed on every call from TotalBookings. If bookings
// change after sales close, repeated calls may disagree until reconciliation
// persists one outcome.
func ResolveStatus(ev domain.EventSnapshot, now time.Time) domain.Status {
	switch ev.PersistedStatus {
	case domain.StatusCompleted, domain.StatusCancelled:
		return ev.PersistedStatus
	case domain.StatusOngoing:
		return ev.PersistedStatus
	case domain.StatusUpcoming:
		if !IsSalesClosed(ev, now) {
			return ev.PersistedStatus
		}
		if ThresholdMet(ev) {
			return domain.StatusCompleted
		}
		return domain.StatusCancelled
	}

	// Snapshots are built from domain.ParseStatus, so this is a programming error.
	panic(fmt.Sprintf("lifecycle: unknown event status %q", ev.PersistedStatus))
}

func IsCompleted(ev domain.EventSnapshot, now time.Time) bool {
	return ResolveStatus(ev, now) == domain.StatusCompleted
}

func IsCancelled(ev domain.EventSnapshot, now time.Time) bool {
	return ResolveStatus(ev, now) == domain.StatusCancelled
}
