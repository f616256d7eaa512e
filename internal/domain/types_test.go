package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"upcoming", "ongoing", "completed", "cancelled"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), st)
	}

	_, err := ParseStatus("published")
	assert.Error(t, err)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusUpcoming.Terminal())
	assert.False(t, StatusOngoing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestEventWithBookingsSnapshot(t *testing.T) {
	offset := 24.0
	start := time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC)
	ewb := EventWithBookings{
		Event: Event{
			ID:                       7,
			StartsAt:                 start,
			DurationHours:            2,
			TicketClosingOffsetHours: &offset,
			MinimumSeats:             10,
			Status:                   StatusUpcoming,
		},
		TotalBookings: 15,
	}

	snap := ewb.Snapshot()

	assert.Equal(t, start, snap.StartTime)
	assert.Equal(t, 2.0, snap.DurationHours)
	require.NotNil(t, snap.TicketClosingOffsetHours)
	assert.Equal(t, 24.0, *snap.TicketClosingOffsetHours)
	assert.Equal(t, 10, snap.MinimumSeats)
	assert.Equal(t, 15, snap.TotalBookings)
	assert.Equal(t, StatusUpcoming, snap.PersistedStatus)
}

func TestInvalidEventTimingErrorMatchesSentinel(t *testing.T) {
	var err error = &InvalidEventTimingError{Field: "duration_hours", Reason: "must not be negative"}

	assert.True(t, errors.Is(err, ErrInvalidEventTiming))
	assert.Contains(t, err.Error(), "duration_hours")
}
