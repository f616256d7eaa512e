package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/tixlife/internal/clock"
	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
	"github.com/kirinyoku/tixlife/internal/repository"
	postgresrepo "github.com/kirinyoku/tixlife/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tixlife/internal/repository/redis"
	"github.com/kirinyoku/tixlife/internal/uow"
)

type Config struct {
	DefaultHoldTTL  time.Duration
	MinHoldTTL      time.Duration
	MaxHoldTTL      time.Duration
	MaxSeatsPerHold int
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisrepo.EventsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	clk     clock.Clock
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.EventsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	clk clock.Clock,
	cfg Config,
) *Service {
	if cfg.MinHoldTTL <= 0 {
		cfg.MinHoldTTL = 30 * time.Second
	}

	if cfg.MaxHoldTTL <= 0 || cfg.MaxHoldTTL < cfg.MinHoldTTL {
		cfg.MaxHoldTTL = 30 * time.Minute
	}

	if cfg.DefaultHoldTTL <= 0 {
		cfg.DefaultHoldTTL = 10 * time.Minute
	}

	if cfg.MaxSeatsPerHold <= 0 {
		cfg.MaxSeatsPerHold = 10
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		clk:     clk,
		cfg:     cfg,
	}
}

// HoldView is a hold together with its countdown at one instant.
type HoldView struct {
	Hold      domain.Hold
	Countdown lifecycle.Countdown
	Active    bool
}

// CreateHold puts seats aside for a user until the hold expires.
//
// Parameters:
//   - ctx: request-scoped context.
//   - eventID: ID of the event.
//   - userID: ID of the user creating the hold.
//   - seats: number of seats to hold.
//   - ttl: requested lifetime, 0 for the default; clamped to the configured range.
//   - rlKey: rate limit scope, usually the client IP; empty disables limiting.
//
// Returns:
//   - *domain.Hold: the created hold.
//   - error: reservations.ErrRateLimited (as *RateLimitedError) when throttled.
//   - error: reservations.ErrEventNotFound if the event does not exist.
//   - error: reservations.ErrSalesClosed once the sale window has closed.
//   - error: reservations.ErrSeatsUnavailable if the venue is full.
func (s *Service) CreateHold(
	ctx context.Context,
	eventID, userID int64,
	seats int,
	ttl time.Duration,
	rlKey string,
) (*domain.Hold, error) {
	const op = "service.reservations.CreateHold"

	if seats <= 0 || seats > s.cfg.MaxSeatsPerHold {
		return nil, fmt.Errorf("%s: %w: must be between 1 and %d", op, ErrInvalidSeats, s.cfg.MaxSeatsPerHold)
	}

	ttl = s.clampTTL(ttl)

	if rlKey != "" {
		d, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !d.Allowed {
			return nil, fmt.Errorf("%s: %w", op, &RateLimitedError{RetryAfter: d.RetryAfter})
		}
	}

	var hold *domain.Hold

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		now := s.clk.Now()

		if err := s.ensureSalesOpen(ctx, tx, eventID, now); err != nil {
			return err
		}

		capacity, err := s.store.Venues().With(tx).CapacityForEvent(ctx, eventID)
		if err != nil {
			return err
		}

		if capacity > 0 {
			taken, err := s.store.Reservations().With(tx).SeatsTaken(ctx, eventID, now)
			if err != nil {
				return err
			}
			if taken+seats > capacity {
				return ErrSeatsUnavailable
			}
		}

		hold, err = s.store.Reservations().
			With(tx).
			CreateHold(ctx, eventID, userID, seats, now.Add(ttl))

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	return hold, nil
}

// GetHold returns a hold with its countdown at the current instant. Expired
// holds are still returned, with the expired countdown and Active false.
func (s *Service) GetHold(ctx context.Context, id uuid.UUID) (*HoldView, error) {
	const op = "service.reservations.GetHold"

	h, err := s.store.Reservations().GetHold(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	c, active := lifecycle.HoldCountdown(h.CartHold(), s.clk.Now())

	return &HoldView{Hold: *h, Countdown: c, Active: active}, nil
}

// ConfirmHold turns an active hold into a reservation.
//
// Parameters:
//   - ctx: request-scoped context.
//   - holdID: ID of the hold to confirm.
//
// Returns:
//   - *domain.Reservation: the created reservation.
//   - error: reservations.ErrHoldNotFound if the hold is not found.
//   - error: reservations.ErrHoldExpired if the hold has expired.
//   - error: reservations.ErrSalesClosed if sales closed while the hold was open.
func (s *Service) ConfirmHold(ctx context.Context, holdID uuid.UUID) (*domain.Reservation, error) {
	const op = "service.reservations.ConfirmHold"

	var res *domain.Reservation

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		now := s.clk.Now()

		h, err := s.store.Reservations().With(tx).GetHold(ctx, holdID)
		if err != nil {
			return err
		}

		if err := s.ensureSalesOpen(ctx, tx, h.EventID, now); err != nil {
			return err
		}

		res, err = s.store.Reservations().With(tx).ConfirmHold(ctx, holdID, now)
		if err != nil {
			return err
		}

		eventID := res.EventID
		after(func(ctx context.Context) {
			_ = s.cache.InvalidateEvent(ctx, eventID)
			_ = s.pubsub.PublishEventChanged(ctx, eventID, "bookings")
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	return res, nil
}

// CancelHold releases a hold before it expires.
func (s *Service) CancelHold(ctx context.Context, holdID uuid.UUID) error {
	const op = "service.reservations.CancelHold"

	if err := s.store.Reservations().CancelHold(ctx, holdID); err != nil {
		return fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	return nil
}

func (s *Service) ensureSalesOpen(ctx context.Context, tx postgresrepo.DB, eventID int64, now time.Time) error {
	ev, err := s.store.Events().With(tx).GetWithBookings(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	snap := ev.Snapshot()
	if snap.PersistedStatus.Terminal() || lifecycle.IsSalesClosed(snap, now) {
		return ErrSalesClosed
	}

	return nil
}

func (s *Service) clampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		ttl = s.cfg.DefaultHoldTTL
	}

	if ttl < s.cfg.MinHoldTTL {
		return s.cfg.MinHoldTTL
	}

	if ttl > s.cfg.MaxHoldTTL {
		return s.cfg.MaxHoldTTL
	}

	return ttl
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrHoldNotFound):
		return ErrHoldNotFound
	case errors.Is(err, repository.ErrHoldExpired):
		return ErrHoldExpired
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrEventNotFound, err)
	default:
		return err
	}
}
