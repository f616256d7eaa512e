package postgresrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirinyoku/tixlife/internal/domain"
)

type EventRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *EventRepo) With(db DB) *EventRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *EventRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const eventColumns = `e.id, e.venue_id, e.title, e.starts_at, e.duration_hours,
	e.ticket_closing_offset_hours, e.minimum_seats, e.status, e.created_at, e.updated_at`

// bookingsColumn is the live reserved seat count of the event aliased as e.
const bookingsColumn = `COALESCE((SELECT SUM(r.seats) FROM reservations r WHERE r.event_id = e.id), 0)`

func scanEvent(row pgx.Row, extra ...any) (domain.Event, error) {
	var (
		e      domain.Event
		status string
	)

	dest := []any{
		&e.ID, &e.VenueID, &e.Title, &e.StartsAt, &e.DurationHours,
		&e.TicketClosingOffsetHours, &e.MinimumSeats, &status, &e.CreatedAt, &e.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return domain.Event{}, err
	}

	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Event{}, err
	}

	e.Status = st
	e.StartsAt = e.StartsAt.UTC()

	return e, nil
}

func scanEventWithBookings(row pgx.Row) (domain.EventWithBookings, error) {
	var bookings int64

	e, err := scanEvent(row, &bookings)
	if err != nil {
		return domain.EventWithBookings{}, err
	}

	return domain.EventWithBookings{Event: e, TotalBookings: int(bookings)}, nil
}

// Create inserts a new event in the upcoming status.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - e: event to insert; ID, Status and timestamps are ignored.
//
// Returns:
//   - *domain.Event: the stored event.
//   - error: repository.ErrNotFound if the venue does not exist.
func (r *EventRepo) Create(ctx context.Context, e domain.Event) (*domain.Event, error) {
	const op = "postgresrepo.EventRepo.Create"

	db := r.handle()

	out, err := scanEvent(db.QueryRow(ctx,
		`INSERT INTO events AS e (venue_id, title, starts_at, duration_hours,
		                          ticket_closing_offset_hours, minimum_seats, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+eventColumns,
		e.VenueID, e.Title, e.StartsAt.UTC(), e.DurationHours,
		e.TicketClosingOffsetHours, e.MinimumSeats, string(domain.StatusUpcoming),
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

// Get retrieves an event by its ID.
func (r *EventRepo) Get(ctx context.Context, id int64) (*domain.Event, error) {
	const op = "postgresrepo.EventRepo.Get"

	db := r.handle()

	e, err := scanEvent(db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events e WHERE e.id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &e, nil
}

// GetWithBookings retrieves an event together with its live reserved seat count.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - id: unique identifier of the event.
//
// Returns:
//   - *domain.EventWithBookings: the event and its bookings when found.
//   - error: repository.ErrNotFound if the event is not found.
func (r *EventRepo) GetWithBookings(ctx context.Context, id int64) (*domain.EventWithBookings, error) {
	const op = "postgresrepo.EventRepo.GetWithBookings"

	db := r.handle()

	e, err := scanEventWithBookings(db.QueryRow(ctx,
		`SELECT `+eventColumns+`, `+bookingsColumn+`
		 FROM events e WHERE e.id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &e, nil
}

// List returns a page of events ordered by start time, each with its bookings.
func (r *EventRepo) List(ctx context.Context, limit, offset int) ([]domain.EventWithBookings, error) {
	const op = "postgresrepo.EventRepo.List"

	return r.collect(ctx, op,
		`SELECT `+eventColumns+`, `+bookingsColumn+`
		 FROM events e
		 ORDER BY e.starts_at, e.id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

// ListByStatus returns every event whose persisted status is one of statuses,
// each with its bookings.
func (r *EventRepo) ListByStatus(ctx context.Context, statuses []domain.Status) ([]domain.EventWithBookings, error) {
	const op = "postgresrepo.EventRepo.ListByStatus"

	if len(statuses) == 0 {
		return nil, nil
	}

	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	return r.collect(ctx, op,
		`SELECT `+eventColumns+`, `+bookingsColumn+`
		 FROM events e
		 WHERE e.status = ANY($1)
		 ORDER BY e.starts_at, e.id`,
		raw,
	)
}

func (r *EventRepo) collect(ctx context.Context, op, sql string, args ...any) ([]domain.EventWithBookings, error) {
	db := r.handle()

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.EventWithBookings
	for rows.Next() {
		e, err := scanEventWithBookings(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateStatus moves an event from one status to another. The update only
// applies while the stored status still equals from, so a concurrent run that
// already moved the event is a no-op.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - id: unique identifier of the event.
//   - from: status the caller observed.
//   - to: status to persist.
//   - now: value written to updated_at.
//
// Returns:
//   - bool: true when a row changed.
//   - error: any database error.
func (r *EventRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status, now time.Time) (bool, error) {
	const op = "postgresrepo.EventRepo.UpdateStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE events SET status = $3, updated_at = $4
		 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), now,
	)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return tag.RowsAffected() == 1, nil
}
