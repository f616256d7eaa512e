package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kirinyoku/tixlife/internal/clock"
	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
	postgresrepo "github.com/kirinyoku/tixlife/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tixlife/internal/repository/redis"
	"github.com/kirinyoku/tixlife/internal/uow"
)

const runTimeout = time.Minute

// Summary counts what one reconciliation run did.
type Summary struct {
	Checked      int
	Completed    int
	Cancelled    int
	ExpiredHolds int
}

func (s Summary) Message() string {
	return fmt.Sprintf(
		"checked %d events: %d completed, %d cancelled; released %d expired holds",
		s.Checked, s.Completed, s.Cancelled, s.ExpiredHolds,
	)
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.EventsPubSub
	uow    *uow.UoW
	clk    clock.Clock
	log    *slog.Logger
	sf     singleflight.Group
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.EventsPubSub,
	clk clock.Clock,
	log *slog.Logger,
) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		clk:    clk,
		log:    log,
	}
}

// ReconcileAll persists the outcome of every event whose sale window has
// closed. Calls made while a run is in flight share its result. The run is
// detached from ctx cancellation and bounded by its own timeout.
//
// Parameters:
//   - ctx: request-scoped context.
//
// Returns:
//   - Summary: what the run changed.
//   - error: any storage error; nothing is persisted in that case.
func (s *Service) ReconcileAll(ctx context.Context) (Summary, error) {
	v, err, _ := s.sf.Do("reconcile", func() (any, error) {
		// Shared by every waiting caller, so no single caller may cancel it.
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runTimeout)
		defer cancel()

		return s.reconcile(runCtx)
	})
	if err != nil {
		return Summary{}, err
	}

	return v.(Summary), nil
}

func (s *Service) reconcile(ctx context.Context) (Summary, error) {
	const op = "service.lifecycle.ReconcileAll"

	now := s.clk.Now()

	expired, err := s.store.Reservations().ExpireHolds(ctx, now)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	var sum Summary

	err = s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		sum = Summary{ExpiredHolds: len(expired)}

		events, err := s.store.Events().
			With(tx).
			ListByStatus(ctx, []domain.Status{domain.StatusUpcoming, domain.StatusOngoing})
		if err != nil {
			return err
		}

		sum.Checked = len(events)

		for _, t := range lifecycle.Plan(events, now) {
			changed, err := s.store.Events().
				With(tx).
				UpdateStatus(ctx, t.EventID, t.From, t.To, now)
			if err != nil {
				return err
			}
			if !changed {
				continue
			}

			switch t.To {
			case domain.StatusCompleted:
				sum.Completed++
			case domain.StatusCancelled:
				sum.Cancelled++
			}

			after(func(ctx context.Context) {
				s.log.Info("event status reconciled",
					slog.Int64("event_id", t.EventID),
					slog.String("from", string(t.From)),
					slog.String("to", string(t.To)),
					slog.Int("bookings", t.TotalBookings),
					slog.Int("minimum_seats", t.MinimumSeats),
				)
				_ = s.cache.InvalidateEvent(ctx, t.EventID)
				_ = s.pubsub.PublishEventChanged(ctx, t.EventID, "status")
			})
		}

		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}
