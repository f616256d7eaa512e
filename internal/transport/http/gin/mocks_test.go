package httpgin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/reconcile"
	"github.com/kirinyoku/tixlife/internal/service/events"
	"github.com/kirinyoku/tixlife/internal/service/reservations"
)

type MockVenueService struct {
	mock.Mock
}

func (m *MockVenueService) CreateVenue(ctx context.Context, name, address string, capacity int) (*domain.Venue, error) {
	args := m.Called(ctx, name, address, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

func (m *MockVenueService) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, in events.CreateEventInput) (*domain.Event, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id int64) (*events.EventView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.EventView), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, limit, offset int) ([]events.EventView, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]events.EventView), args.Error(1)
}

func (m *MockEventService) Snapshot(ctx context.Context, id int64) (*domain.EventWithBookings, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventWithBookings), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateHold(ctx context.Context, eventID, userID int64, seats int, ttl time.Duration, rlKey string) (*domain.Hold, error) {
	args := m.Called(ctx, eventID, userID, seats, ttl, rlKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockReservationService) GetHold(ctx context.Context, id uuid.UUID) (*reservations.HoldView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservations.HoldView), args.Error(1)
}

func (m *MockReservationService) ConfirmHold(ctx context.Context, holdID uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CancelHold(ctx context.Context, holdID uuid.UUID) error {
	args := m.Called(ctx, holdID)
	return args.Error(0)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) ReconcileAll(ctx context.Context) reconcile.Result {
	args := m.Called(ctx)
	return args.Get(0).(reconcile.Result)
}

type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) Fire(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// memoryIdempotency is an in-memory IdempotencyStore.
type memoryIdempotency struct {
	locks   map[string]bool
	results map[string]string
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{locks: map[string]bool{}, results: map[string]string{}}
}

func (s *memoryIdempotency) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	if s.locks[key] || s.results[key] != "" {
		return false, nil
	}
	s.locks[key] = true
	return true, nil
}

func (s *memoryIdempotency) SaveResult(_ context.Context, key, payload string) error {
	delete(s.locks, key)
	s.results[key] = payload
	return nil
}

func (s *memoryIdempotency) GetResult(_ context.Context, key string) (string, bool, error) {
	v, ok := s.results[key]
	return v, ok, nil
}

func (s *memoryIdempotency) Release(_ context.Context, key string) error {
	delete(s.locks, key)
	return nil
}
