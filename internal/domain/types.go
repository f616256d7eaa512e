package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle status of an event.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus converts a stored or user supplied string into a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown event status %q", s)
}

// Terminal reports whether no lifecycle rule may move the event out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Venue struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Capacity  int       `json:"capacity"` // 0 = unlimited
	CreatedAt time.Time `json:"created_at"`
}

type Event struct {
	ID      int64  `json:"id"`
	VenueID int64  `json:"venue_id"`
	Title   string `json:"title"`

	StartsAt                 time.Time `json:"starts_at"`
	DurationHours            float64   `json:"duration_hours"`
	TicketClosingOffsetHours *float64  `json:"ticket_closing_offset_hours,omitempty"`
	MinimumSeats             int       `json:"minimum_seats"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventWithBookings is an event together with its live reserved seat count.
type EventWithBookings struct {
	Event         Event `json:"event"`
	TotalBookings int   `json:"total_bookings"`
}

// Snapshot assembles the read-only input of the lifecycle engine.
func (e EventWithBookings) Snapshot() EventSnapshot {
	return EventSnapshot{
		StartTime:                e.Event.StartsAt,
		DurationHours:            e.Event.DurationHours,
		TicketClosingOffsetHours: e.Event.TicketClosingOffsetHours,
		MinimumSeats:             e.Event.MinimumSeats,
		TotalBookings:            e.TotalBookings,
		PersistedStatus:          e.Event.Status,
	}
}

// EventSnapshot is everything the lifecycle engine needs to know about an
// event. It is owned and mutated elsewhere; the engine only reads it.
type EventSnapshot struct {
	StartTime     time.Time
	DurationHours float64
	// nil means sales stay open until the event starts.
	TicketClosingOffsetHours *float64
	// 0 means no threshold.
	MinimumSeats    int
	TotalBookings   int
	PersistedStatus Status
}

// CartHold is the part of a pending checkout the hold countdown needs.
type CartHold struct {
	ExpiresAt *time.Time
}

type Hold struct {
	ID        uuid.UUID `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Seats     int       `json:"seats"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (h Hold) CartHold() CartHold {
	exp := h.ExpiresAt
	return CartHold{ExpiresAt: &exp}
}

type Reservation struct {
	ID        uuid.UUID `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Seats     int       `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}
