package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tixlife/internal/clock"
	"github.com/kirinyoku/tixlife/internal/domain"
	postgresrepo "github.com/kirinyoku/tixlife/internal/repository/postgres"
	"github.com/kirinyoku/tixlife/internal/service/events"
	"github.com/kirinyoku/tixlife/internal/testutil"
)

func TestCreateEventValidation(t *testing.T) {
	svc := events.New(nil, nil, clock.NewSystem(), events.Config{})
	ctx := context.Background()
	start := time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC)
	negative := -1.0

	_, err := svc.CreateEvent(ctx, events.CreateEventInput{VenueID: 1, Title: "x", StartsAt: start, DurationHours: -2})
	assert.True(t, errors.Is(err, domain.ErrInvalidEventTiming))

	_, err = svc.CreateEvent(ctx, events.CreateEventInput{VenueID: 1, Title: "x", StartsAt: start, TicketClosingOffsetHours: &negative})
	assert.True(t, errors.Is(err, domain.ErrInvalidEventTiming))

	_, err = svc.CreateEvent(ctx, events.CreateEventInput{VenueID: 1, Title: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidEventTiming))

	_, err = svc.CreateEvent(ctx, events.CreateEventInput{VenueID: 1, Title: " ", StartsAt: start})
	assert.True(t, errors.Is(err, events.ErrInvalidEvent))

	_, err = svc.CreateEvent(ctx, events.CreateEventInput{VenueID: 1, Title: "x", StartsAt: start, MinimumSeats: -1})
	assert.True(t, errors.Is(err, events.ErrInvalidEvent))
}

func TestCreateGetListEvents(t *testing.T) {
	store := postgresrepo.NewStore(testutil.NewTestPool(t))
	clk := clock.NewManual(time.Date(2024, 1, 19, 13, 0, 0, 0, time.UTC))
	svc := events.New(store, nil, clk, events.Config{})
	ctx := context.Background()

	venue, err := store.Venues().Create(ctx, "Club", "", 0)
	require.NoError(t, err)

	offset := 24.0
	ev, err := svc.CreateEvent(ctx, events.CreateEventInput{
		VenueID:                  venue.ID,
		Title:                    "Concert",
		StartsAt:                 time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC),
		DurationHours:            2,
		TicketClosingOffsetHours: &offset,
		MinimumSeats:             0,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpcoming, ev.Status)

	v, err := svc.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	require.NotNil(t, v.Countdown)
	assert.Equal(t, "1 hour 0 minutes", v.Countdown.Display)

	clk.Advance(2 * time.Hour)

	v, err = svc.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.True(t, v.SalesClosed)
	assert.Equal(t, domain.StatusCompleted, v.EffectiveStatus)

	list, err := svc.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ev.ID, list[0].Event.ID)

	_, err = svc.GetEvent(ctx, ev.ID+1)
	assert.True(t, errors.Is(err, events.ErrEventNotFound))

	_, err = svc.CreateEvent(ctx, events.CreateEventInput{
		VenueID:  venue.ID + 1,
		Title:    "Nowhere",
		StartsAt: time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC),
	})
	assert.True(t, errors.Is(err, events.ErrVenueNotFound))
}
