package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirinyoku/tixlife/internal/domain"
)

type VenueRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *VenueRepo) With(db DB) *VenueRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *VenueRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a new venue.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - name: unique name of the venue.
//   - address: free-form street address.
//   - capacity: maximum seats per event, 0 for unlimited.
//
// Returns:
//   - *domain.Venue: the stored venue.
//   - error: repository.ErrConflict if the name is already taken.
func (r *VenueRepo) Create(ctx context.Context, name, address string, capacity int) (*domain.Venue, error) {
	const op = "postgresrepo.VenueRepo.Create"

	db := r.handle()

	var v domain.Venue
	err := db.QueryRow(ctx,
		`INSERT INTO venues (name, address, capacity)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, address, capacity, created_at`,
		name, address, capacity,
	).Scan(&v.ID, &v.Name, &v.Address, &v.Capacity, &v.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &v, nil
}

// Get retrieves a venue by its ID.
func (r *VenueRepo) Get(ctx context.Context, id int64) (*domain.Venue, error) {
	const op = "postgresrepo.VenueRepo.Get"

	db := r.handle()

	var v domain.Venue
	err := db.QueryRow(ctx,
		`SELECT id, name, address, capacity, created_at
		 FROM venues WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.Address, &v.Capacity, &v.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &v, nil
}

// CapacityForEvent returns the capacity of the venue hosting eventID.
func (r *VenueRepo) CapacityForEvent(ctx context.Context, eventID int64) (int, error) {
	const op = "postgresrepo.VenueRepo.CapacityForEvent"

	db := r.handle()

	var capacity int
	err := db.QueryRow(ctx,
		`SELECT v.capacity
		 FROM events e JOIN venues v ON v.id = e.venue_id
		 WHERE e.id = $1`,
		eventID,
	).Scan(&capacity)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return capacity, nil
}
