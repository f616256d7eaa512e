package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/repository"
)

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// CreateHold stores a cart hold that keeps seats aside until expiresAt.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - eventID: event the seats belong to.
//   - userID: owner of the hold.
//   - seats: number of seats held, must be positive.
//   - expiresAt: instant after which the hold no longer counts.
//
// Returns:
//   - *domain.Hold: the stored hold.
//   - error: repository.ErrNotFound if the event does not exist.
func (r *ReservationRepo) CreateHold(
	ctx context.Context,
	eventID, userID int64,
	seats int,
	expiresAt time.Time,
) (*domain.Hold, error) {
	const op = "postgresrepo.ReservationRepo.CreateHold"

	db := r.handle()

	h := domain.Hold{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		Seats:     seats,
		ExpiresAt: expiresAt.UTC(),
	}

	err := db.QueryRow(ctx,
		`INSERT INTO holds (id, event_id, user_id, seats, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		h.ID, h.EventID, h.UserID, h.Seats, h.ExpiresAt,
	).Scan(&h.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &h, nil
}

// GetHold retrieves a hold by its ID, expired or not.
func (r *ReservationRepo) GetHold(ctx context.Context, id uuid.UUID) (*domain.Hold, error) {
	const op = "postgresrepo.ReservationRepo.GetHold"

	db := r.handle()

	var h domain.Hold
	err := db.QueryRow(ctx,
		`SELECT id, event_id, user_id, seats, expires_at, created_at
		 FROM holds WHERE id = $1`,
		id,
	).Scan(&h.ID, &h.EventID, &h.UserID, &h.Seats, &h.ExpiresAt, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrHoldNotFound)
	}
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	h.ExpiresAt = h.ExpiresAt.UTC()

	return &h, nil
}

// TotalBookings returns the number of seats reserved for an event.
func (r *ReservationRepo) TotalBookings(ctx context.Context, eventID int64) (int, error) {
	const op = "postgresrepo.ReservationRepo.TotalBookings"

	db := r.handle()

	var n int64
	if err := db.QueryRow(ctx,
		`SELECT COALESCE(SUM(seats), 0) FROM reservations WHERE event_id = $1`,
		eventID,
	).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return int(n), nil
}

// SeatsTaken returns reserved seats plus seats in holds still active at now.
func (r *ReservationRepo) SeatsTaken(ctx context.Context, eventID int64, now time.Time) (int, error) {
	const op = "postgresrepo.ReservationRepo.SeatsTaken"

	db := r.handle()

	var n int64
	if err := db.QueryRow(ctx,
		`SELECT
		   COALESCE((SELECT SUM(seats) FROM reservations WHERE event_id = $1), 0) +
		   COALESCE((SELECT SUM(seats) FROM holds WHERE event_id = $1 AND expires_at > $2), 0)`,
		eventID, now,
	).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return int(n), nil
}

// ConfirmHold turns an active hold into a reservation and removes the hold.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - holdID: hold to confirm.
//   - now: instant used to decide whether the hold is still active.
//
// Returns:
//   - *domain.Reservation: the created reservation.
//   - error: repository.ErrHoldNotFound if the hold does not exist,
//     repository.ErrHoldExpired if it expired at or before now.
func (r *ReservationRepo) ConfirmHold(ctx context.Context, holdID uuid.UUID, now time.Time) (*domain.Reservation, error) {
	const op = "postgresrepo.ReservationRepo.ConfirmHold"

	db := r.handle()

	var (
		res       domain.Reservation
		expiresAt time.Time
	)

	err := db.QueryRow(ctx,
		`DELETE FROM holds WHERE id = $1
		 RETURNING event_id, user_id, seats, expires_at`,
		holdID,
	).Scan(&res.EventID, &res.UserID, &res.Seats, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrHoldNotFound)
	}
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if !expiresAt.After(now) {
		// The caller's transaction rolls the delete back.
		return nil, fmt.Errorf("%s: %w", op, repository.ErrHoldExpired)
	}

	res.ID = uuid.New()

	if err := db.QueryRow(ctx,
		`INSERT INTO reservations (id, event_id, user_id, seats)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		res.ID, res.EventID, res.UserID, res.Seats,
	).Scan(&res.CreatedAt); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &res, nil
}

// CancelHold removes a hold.
func (r *ReservationRepo) CancelHold(ctx context.Context, holdID uuid.UUID) error {
	const op = "postgresrepo.ReservationRepo.CancelHold"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM holds WHERE id = $1`, holdID)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrHoldNotFound)
	}

	return nil
}

// ExpireHolds deletes holds that expired at or before now and returns the
// event ID of every deleted hold.
func (r *ReservationRepo) ExpireHolds(ctx context.Context, now time.Time) ([]int64, error) {
	const op = "postgresrepo.ReservationRepo.ExpireHolds"

	db := r.handle()

	rows, err := db.Query(ctx,
		`DELETE FROM holds WHERE expires_at <= $1 RETURNING event_id`,
		now,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ids, nil
}
