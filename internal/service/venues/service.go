package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/repository"
	postgresrepo "github.com/kirinyoku/tixlife/internal/repository/postgres"
)

type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// CreateVenue creates a venue record.
//
// Parameters:
//   - ctx: request-scoped context.
//   - name: unique venue name.
//   - address: free-form address.
//   - capacity: seats available per event, 0 for unlimited.
//
// Returns:
//   - *domain.Venue: the created venue.
//   - error: venues.ErrInvalidVenue on an empty name or negative capacity.
//   - error: venues.ErrVenueConflict if a venue with the same name already exists.
func (s *Service) CreateVenue(ctx context.Context, name, address string, capacity int) (*domain.Venue, error) {
	const op = "service.venues.CreateVenue"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w: name is required", op, ErrInvalidVenue)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%s: %w: capacity must not be negative", op, ErrInvalidVenue)
	}

	v, err := s.store.Venues().Create(ctx, name, strings.TrimSpace(address), capacity)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrVenueConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

// GetVenue returns a venue by ID or venues.ErrVenueNotFound.
func (s *Service) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	const op = "service.venues.GetVenue"

	v, err := s.store.Venues().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrVenueNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}
