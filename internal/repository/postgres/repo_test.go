package postgresrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/repository"
	postgresrepo "github.com/kirinyoku/tixlife/internal/repository/postgres"
	"github.com/kirinyoku/tixlife/internal/testutil"
)

func seedEvent(t *testing.T, store *postgresrepo.Store, capacity, minimum int) *domain.Event {
	t.Helper()
	ctx := context.Background()

	v, err := store.Venues().Create(ctx, "Hall "+uuid.NewString(), "1 Main St", capacity)
	require.NoError(t, err)

	offset := 24.0
	ev, err := store.Events().Create(ctx, domain.Event{
		VenueID:                  v.ID,
		Title:                    "Concert",
		StartsAt:                 time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC),
		DurationHours:            2,
		TicketClosingOffsetHours: &offset,
		MinimumSeats:             minimum,
	})
	require.NoError(t, err)

	return ev
}

func TestVenueRepo(t *testing.T) {
	store := postgresrepo.NewStore(testutil.NewTestPool(t))
	ctx := context.Background()

	v, err := store.Venues().Create(ctx, "Arena", "2 Side St", 500)
	require.NoError(t, err)
	assert.NotZero(t, v.ID)

	_, err = store.Venues().Create(ctx, "Arena", "elsewhere", 10)
	assert.True(t, errors.Is(err, repository.ErrConflict))

	got, err := store.Venues().Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arena", got.Name)
	assert.Equal(t, 500, got.Capacity)

	_, err = store.Venues().Get(ctx, v.ID+1000)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestEventRepoCreateUnknownVenue(t *testing.T) {
	store := postgresrepo.NewStore(testutil.NewTestPool(t))

	_, err := store.Events().Create(context.Background(), domain.Event{
		VenueID:  424242,
		Title:    "Ghost",
		StartsAt: time.Now(),
	})
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestEventRepoBookingsAndStatus(t *testing.T) {
	store := postgresrepo.NewStore(testutil.NewTestPool(t))
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	ev := seedEvent(t, store, 0, 10)
	assert.Equal(t, domain.StatusUpcoming, ev.Status)
	require.NotNil(t, ev.TicketClosingOffsetHours)
	assert.Equal(t, 24.0, *ev.TicketClosingOffsetHours)

	h, err := store.Reservations().CreateHold(ctx, ev.ID, 7, 4, now.Add(10*time.Minute))
	require.NoError(t, err)

	taken, err := store.Reservations().SeatsTaken(ctx, ev.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 4, taken)

	_, err = store.Reservations().ConfirmHold(ctx, h.ID, now)
	require.NoError(t, err)

	got, err := store.Events().GetWithBookings(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalBookings)

	total, err := store.Reservations().TotalBookings(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	list, err := store.Events().ListByStatus(ctx, []domain.Status{domain.StatusUpcoming})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].TotalBookings)

	changed, err := store.Events().UpdateStatus(ctx, ev.ID, domain.StatusUpcoming, domain.StatusCancelled, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = store.Events().UpdateStatus(ctx, ev.ID, domain.StatusUpcoming, domain.StatusCompleted, now)
	require.NoError(t, err)
	assert.False(t, changed)

	page, err := store.Events().List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domain.StatusCancelled, page[0].Event.Status)
}

func TestReservationRepoExpiredHold(t *testing.T) {
	pool := testutil.NewTestPool(t)
	store := postgresrepo.NewStore(pool)
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	ev := seedEvent(t, store, 0, 0)

	h, err := store.Reservations().CreateHold(ctx, ev.ID, 1, 2, now.Add(time.Minute))
	require.NoError(t, err)

	err = store.RunTx(ctx, nil, func(ctx context.Context, tx postgresrepo.DB) error {
		_, err := store.Reservations().With(tx).ConfirmHold(ctx, h.ID, now.Add(time.Minute))
		return err
	})
	assert.True(t, errors.Is(err, repository.ErrHoldExpired))

	// The rolled back transaction left the hold in place.
	_, err = store.Reservations().GetHold(ctx, h.ID)
	require.NoError(t, err)

	taken, err := store.Reservations().SeatsTaken(ctx, ev.ID, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, taken)

	ids, err := store.Reservations().ExpireHolds(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []int64{ev.ID}, ids)

	assert.True(t, errors.Is(store.Reservations().CancelHold(ctx, h.ID), repository.ErrHoldNotFound))
	_, err = store.Reservations().ConfirmHold(ctx, uuid.New(), now)
	assert.True(t, errors.Is(err, repository.ErrHoldNotFound))
}
