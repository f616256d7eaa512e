package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
)

func concert(bookings int) domain.EventWithBookings {
	offset := 24.0
	return domain.EventWithBookings{
		Event: domain.Event{
			ID:                       1,
			StartsAt:                 time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC),
			DurationHours:            2,
			TicketClosingOffsetHours: &offset,
			MinimumSeats:             10,
			Status:                   domain.StatusUpcoming,
		},
		TotalBookings: bookings,
	}
}

func TestBuildViewFarFromClose(t *testing.T) {
	v := BuildView(concert(3), time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, domain.StatusUpcoming, v.EffectiveStatus)
	assert.Equal(t, time.Date(2024, 1, 19, 14, 0, 0, 0, time.UTC), v.SaleClosesAt)
	assert.Equal(t, time.Date(2024, 1, 20, 16, 0, 0, 0, time.UTC), v.EndsAt)
	assert.False(t, v.SalesClosed)
	assert.False(t, v.Started)
	assert.Nil(t, v.Countdown)
}

func TestBuildViewCountdownNearClose(t *testing.T) {
	v := BuildView(concert(3), time.Date(2024, 1, 19, 12, 30, 0, 0, time.UTC))

	require.NotNil(t, v.Countdown)
	assert.Equal(t, "1 hour 30 minutes", v.Countdown.Display)
	assert.Equal(t, lifecycle.UrgencyCritical, v.Countdown.Urgency)
}

func TestBuildViewAfterClose(t *testing.T) {
	now := time.Date(2024, 1, 19, 15, 0, 0, 0, time.UTC)

	v := BuildView(concert(15), now)
	assert.True(t, v.SalesClosed)
	assert.Equal(t, domain.StatusCompleted, v.EffectiveStatus)
	assert.Equal(t, domain.StatusUpcoming, v.Event.Status)
	assert.Nil(t, v.Countdown)

	v = BuildView(concert(5), now)
	assert.Equal(t, domain.StatusCancelled, v.EffectiveStatus)
}
