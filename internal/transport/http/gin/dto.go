package httpgin

import (
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
	"github.com/kirinyoku/tixlife/internal/service/events"
	"github.com/kirinyoku/tixlife/internal/service/reservations"
)

type CreateHoldRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	Seats  int   `json:"seats" binding:"required,gt=0"`
	TTLSec int   `json:"ttl_sec" binding:"gte=0"`
}

type CreateVenueRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity" binding:"gte=0"`
}

// CreateEventRequest takes the start either as RFC 3339 in starts_at or as
// separate date ("2006-01-02"), time ("15:04") and optional IANA timezone.
type CreateEventRequest struct {
	VenueID  int64  `json:"venue_id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	StartsAt string `json:"starts_at"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`

	DurationHours            float64  `json:"duration_hours"`
	TicketClosingOffsetHours *float64 `json:"ticket_closing_offset_hours"`
	MinimumSeats             int      `json:"minimum_seats"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CountdownResponse struct {
	RemainingSeconds int64  `json:"remaining_seconds"`
	Urgency          string `json:"urgency"`
	Display          string `json:"display"`
	Render           bool   `json:"render"`
}

type EventResponse struct {
	ID                       int64     `json:"id"`
	VenueID                  int64     `json:"venue_id"`
	Title                    string    `json:"title"`
	StartsAt                 time.Time `json:"starts_at"`
	DurationHours            float64   `json:"duration_hours"`
	TicketClosingOffsetHours *float64  `json:"ticket_closing_offset_hours,omitempty"`
	MinimumSeats             int       `json:"minimum_seats"`
	TotalBookings            int       `json:"total_bookings"`

	Status          domain.Status `json:"status"`
	EffectiveStatus domain.Status `json:"effective_status"`
	SaleClosesAt    time.Time     `json:"sale_closes_at"`
	EndsAt          time.Time     `json:"ends_at"`
	Started         bool          `json:"started"`
	SalesClosed     bool          `json:"sales_closed"`

	Countdown *CountdownResponse `json:"countdown,omitempty"`
}

type HoldResponse struct {
	ID        string            `json:"id"`
	EventID   int64             `json:"event_id"`
	UserID    int64             `json:"user_id"`
	Seats     int               `json:"seats"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
	Active    bool              `json:"active"`
	Countdown CountdownResponse `json:"countdown"`
}

type CreateHoldResponse struct {
	HoldID    string    `json:"hold_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ReservationResponse struct {
	ReservationID string `json:"reservation_id"`
	EventID       int64  `json:"event_id"`
	Seats         int    `json:"seats"`
}

type CreateVenueResponse struct {
	VenueID int64 `json:"venue_id"`
}

type CreateEventResponse struct {
	EventID int64 `json:"event_id"`
}

// SaleCountdownFrame is one server-sent event of /events/{id}/countdown.
type SaleCountdownFrame struct {
	EventID         int64              `json:"event_id"`
	EffectiveStatus domain.Status      `json:"effective_status"`
	SalesClosed     bool               `json:"sales_closed"`
	Countdown       *CountdownResponse `json:"countdown,omitempty"`
	At              time.Time          `json:"at"`
}

// HoldCountdownFrame is one server-sent event of /holds/{id}/countdown.
type HoldCountdownFrame struct {
	HoldID    string            `json:"hold_id"`
	Expired   bool              `json:"expired"`
	Countdown CountdownResponse `json:"countdown"`
	At        time.Time         `json:"at"`
}

func toCountdown(c lifecycle.Countdown) CountdownResponse {
	return CountdownResponse{
		RemainingSeconds: int64(c.Remaining / time.Second),
		Urgency:          string(c.Urgency),
		Display:          c.Display,
		Render:           c.Render,
	}
}

func toEventResponse(v events.EventView) EventResponse {
	out := EventResponse{
		ID:                       v.Event.ID,
		VenueID:                  v.Event.VenueID,
		Title:                    v.Event.Title,
		StartsAt:                 v.Event.StartsAt,
		DurationHours:            v.Event.DurationHours,
		TicketClosingOffsetHours: v.Event.TicketClosingOffsetHours,
		MinimumSeats:             v.Event.MinimumSeats,
		TotalBookings:            v.TotalBookings,
		Status:                   v.Event.Status,
		EffectiveStatus:          v.EffectiveStatus,
		SaleClosesAt:             v.SaleClosesAt,
		EndsAt:                   v.EndsAt,
		Started:                  v.Started,
		SalesClosed:              v.SalesClosed,
	}

	if v.Countdown != nil {
		c := toCountdown(*v.Countdown)
		out.Countdown = &c
	}

	return out
}

func toHoldResponse(v reservations.HoldView) HoldResponse {
	return HoldResponse{
		ID:        v.Hold.ID.String(),
		EventID:   v.Hold.EventID,
		UserID:    v.Hold.UserID,
		Seats:     v.Hold.Seats,
		ExpiresAt: v.Hold.ExpiresAt,
		CreatedAt: v.Hold.CreatedAt,
		Active:    v.Active,
		Countdown: toCountdown(v.Countdown),
	}
}

func saleCountdownFrame(ev domain.EventWithBookings, now time.Time) SaleCountdownFrame {
	snap := ev.Snapshot()

	f := SaleCountdownFrame{
		EventID:         ev.Event.ID,
		EffectiveStatus: lifecycle.ResolveStatus(snap, now),
		SalesClosed:     lifecycle.IsSalesClosed(snap, now),
		At:              now,
	}

	if c, ok := lifecycle.SaleCountdown(snap, now); ok {
		cr := toCountdown(c)
		f.Countdown = &cr
	}

	return f
}

// releasedHoldFrame is the final frame for a hold that no longer exists.
func releasedHoldFrame(id uuid.UUID, now time.Time) HoldCountdownFrame {
	c, _ := lifecycle.HoldCountdown(domain.CartHold{}, now)

	return HoldCountdownFrame{
		HoldID:    id.String(),
		Expired:   true,
		Countdown: toCountdown(c),
		At:        now,
	}
}

func holdCountdownFrame(h domain.Hold, now time.Time) HoldCountdownFrame {
	c, active := lifecycle.HoldCountdown(h.CartHold(), now)

	return HoldCountdownFrame{
		HoldID:    h.ID.String(),
		Expired:   !active,
		Countdown: toCountdown(c),
		At:        now,
	}
}
