package lifecycle

import (
	"time"

	"github.com/kirinyoku/tixlife/internal/domain"
)

// Transition is a status change the reconciliation job should persist.
type Transition struct {
	EventID       int64
	From          domain.Status
	To            domain.Status
	TotalBookings int
	MinimumSeats  int
}

// Plan applies ResolveStatus to every event and returns the ones whose
// effective status differs from the persisted one.
func Plan(events []domain.EventWithBookings, now time.Time) []Transition {
	var out []Transition

	for _, e := range events {
		snap := e.Snapshot()

		to := ResolveStatus(snap, now)
		if to == snap.PersistedStatus {
			continue
		}

		out = append(out, Transition{
			EventID:       e.Event.ID,
			From:          snap.PersistedStatus,
			To:            to,
			TotalBookings: snap.TotalBookings,
			MinimumSeats:  snap.MinimumSeats,
		})
	}

	return out
}
