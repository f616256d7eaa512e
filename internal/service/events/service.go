package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirinyoku/tixlife/internal/clock"
	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
	"github.com/kirinyoku/tixlife/internal/repository"
	postgresrepo "github.com/kirinyoku/tixlife/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tixlife/internal/repository/redis"
)

type Config struct {
	SnapshotTTL time.Duration
	DefaultPage int
	MaxPage     int
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	clk   clock.Clock
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, clk clock.Clock, cfg Config) *Service {
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = 15 * time.Second
	}

	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 50
	}

	if cfg.MaxPage <= 0 {
		cfg.MaxPage = 200
	}

	return &Service{
		store: store,
		cache: cache,
		clk:   clk,
		cfg:   cfg,
	}
}

// CreateEventInput carries the fields of a new event. StartsAt must already
// be parsed; string inputs go through lifecycle.ParseStart first.
type CreateEventInput struct {
	VenueID                  int64
	Title                    string
	StartsAt                 time.Time
	DurationHours            float64
	TicketClosingOffsetHours *float64
	MinimumSeats             int
}

// CreateEvent validates and stores a new upcoming event.
//
// Parameters:
//   - ctx: request-scoped context.
//   - in: the event fields.
//
// Returns:
//   - *domain.Event: the created event.
//   - error: domain.ErrInvalidEventTiming for negative or non-finite hours.
//   - error: events.ErrInvalidEvent for an empty title or negative minimum.
//   - error: events.ErrVenueNotFound if the venue does not exist.
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	const op = "service.events.CreateEvent"

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%s: %w: title is required", op, ErrInvalidEvent)
	}
	if in.MinimumSeats < 0 {
		return nil, fmt.Errorf("%s: %w: minimum_seats must not be negative", op, ErrInvalidEvent)
	}
	if in.StartsAt.IsZero() {
		return nil, fmt.Errorf("%s: %w", op, &domain.InvalidEventTimingError{
			Field:  "starts_at",
			Reason: "is required",
		})
	}
	if err := lifecycle.ValidateTiming(in.DurationHours, in.TicketClosingOffsetHours); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e, err := s.store.Events().Create(ctx, domain.Event{
		VenueID:                  in.VenueID,
		Title:                    in.Title,
		StartsAt:                 in.StartsAt,
		DurationHours:            in.DurationHours,
		TicketClosingOffsetHours: in.TicketClosingOffsetHours,
		MinimumSeats:             in.MinimumSeats,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrVenueNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// Snapshot returns the event and its live bookings, served from the cache
// when possible.
//
// Parameters:
//   - ctx: request-scoped context.
//   - id: ID of the event.
//
// Returns:
//   - *domain.EventWithBookings: the event and its bookings.
//   - error: events.ErrEventNotFound if the event is not found.
func (s *Service) Snapshot(ctx context.Context, id int64) (*domain.EventWithBookings, error) {
	const op = "service.events.Snapshot"

	ev, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyEventSnapshot(id),
		s.cfg.SnapshotTTL,
		func(ctx context.Context) (domain.EventWithBookings, error) {
			e, err := s.store.Events().GetWithBookings(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.EventWithBookings{}, ErrEventNotFound
				}
				return domain.EventWithBookings{}, err
			}

			return *e, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &ev, nil
}

// GetEvent returns the view of one event at the current instant. The
// lifecycle decision is recomputed on every call.
func (s *Service) GetEvent(ctx context.Context, id int64) (*EventView, error) {
	const op = "service.events.GetEvent"

	ev, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v := BuildView(*ev, s.clk.Now())

	return &v, nil
}

// ListEvents returns a page of event views ordered by start time.
//
// Parameters:
//   - ctx: request-scoped context.
//   - limit, offset: pagination; limit is clamped to the configured range.
//
// Returns:
//   - []EventView: the views, possibly empty.
//   - error: any storage error.
func (s *Service) ListEvents(ctx context.Context, limit, offset int) ([]EventView, error) {
	const op = "service.events.ListEvents"

	if limit <= 0 {
		limit = s.cfg.DefaultPage
	}
	if limit > s.cfg.MaxPage {
		limit = s.cfg.MaxPage
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.store.Events().List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clk.Now()

	out := make([]EventView, 0, len(list))
	for _, e := range list {
		out = append(out, BuildView(e, now))
	}

	return out, nil
}
