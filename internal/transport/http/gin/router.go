package httpgin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kirinyoku/tixlife/internal/clock"
	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
	"github.com/kirinyoku/tixlife/internal/reconcile"
	redisrepo "github.com/kirinyoku/tixlife/internal/repository/redis"
	"github.com/kirinyoku/tixlife/internal/service/events"
	"github.com/kirinyoku/tixlife/internal/service/reservations"
)

type VenueService interface {
	CreateVenue(ctx context.Context, name, address string, capacity int) (*domain.Venue, error)
	GetVenue(ctx context.Context, id int64) (*domain.Venue, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, in events.CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id int64) (*events.EventView, error)
	ListEvents(ctx context.Context, limit, offset int) ([]events.EventView, error)
	Snapshot(ctx context.Context, id int64) (*domain.EventWithBookings, error)
}

type ReservationService interface {
	CreateHold(ctx context.Context, eventID, userID int64, seats int, ttl time.Duration, rlKey string) (*domain.Hold, error)
	GetHold(ctx context.Context, id uuid.UUID) (*reservations.HoldView, error)
	ConfirmHold(ctx context.Context, holdID uuid.UUID) (*domain.Reservation, error)
	CancelHold(ctx context.Context, holdID uuid.UUID) error
}

type IdempotencyStore interface {
	AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	SaveResult(ctx context.Context, key, jsonPayload string) error
	GetResult(ctx context.Context, key string) (string, bool, error)
	Release(ctx context.Context, key string) error
}

type ReconcileTrigger interface {
	Fire(ctx context.Context) bool
}

// Deps are the collaborators of the HTTP layer. Idempotency, Trigger and
// Hub are optional.
type Deps struct {
	Venues       VenueService
	Events       EventService
	Reservations ReservationService

	// Reconciler serves the update-statuses endpoint and must run in-process.
	Reconciler  reconcile.Reconciler
	Trigger     ReconcileTrigger
	Idempotency IdempotencyStore
	Hub         *EventHub
	Clock       clock.Clock
}

func NewRouter(
	deps Deps,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/events", handleListEvents(deps))
	r.GET("/events/:id", handleGetEvent(deps))
	r.GET("/events/:id/countdown", handleEventCountdown(deps))
	r.POST("/events/:id/holds", handleCreateHold(deps))

	r.GET("/holds/:id", handleGetHold(deps))
	r.GET("/holds/:id/countdown", handleHoldCountdown(deps))
	r.POST("/holds/:id/confirm", handleConfirmHold(deps))
	r.DELETE("/holds/:id", handleCancelHold(deps))

	r.GET("/venues/:id", handleGetVenue(deps))

	// Admin API
	admin := r.Group("/admin")
	{
		admin.POST("/venues", handleCreateVenue(deps))
		admin.POST("/events", handleCreateEvent(deps))
		admin.POST("/events/update-statuses", handleUpdateStatuses(deps))
	}

	return r
}

// @Summary  List events
// @Description Fires a background status reconciliation on every call.
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200  {array}  EventResponse
// @Router   /events [get]
func handleListEvents(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Trigger != nil {
			d.Trigger.Fire(c.Request.Context())
		}

		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)

		list, err := d.Events.ListEvents(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]EventResponse, 0, len(list))
		for _, v := range list {
			out = append(out, toEventResponse(v))
		}

		writeJSONWithCache(c, http.StatusOK, out, "no-cache", true)
	}
}

// @Summary  Get event
// @Param    id  path  int  true  "Event ID"
// @Success  200  {object}  EventResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /events/{id} [get]
func handleGetEvent(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		v, err := d.Events.GetEvent(c.Request.Context(), eventID)
		if err != nil {
			respondErr(c, err)
			return
		}

		// The effective status and countdown depend on the clock, so clients
		// must revalidate every time.
		writeJSONWithCache(c, http.StatusOK, toEventResponse(*v), "no-cache", true)
	}
}

// @Summary  Create hold (idempotent)
// @Param    id  path  int  true  "Event ID"
// @Param    req body  CreateHoldRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} CreateHoldResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "sales closed / seats unavailable / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /events/{id}/holds [post]
func handleCreateHold(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req CreateHoldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		ctx := c.Request.Context()
		idem := d.Idempotency

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemHold(eventID, idemKey)

			if payload, ok, _ := idem.GetResult(ctx, idemStorageKey); ok {
				replayCreated(c, idemKey, payload)
				return
			}

			locked, err := idem.AcquireLock(ctx, idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(ctx, idemStorageKey); ok {
					replayCreated(c, idemKey, payload)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		h, err := d.Reservations.CreateHold(
			ctx,
			eventID,
			req.UserID,
			req.Seats,
			time.Duration(req.TTLSec)*time.Second,
			"ip:"+c.ClientIP(),
		)
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Release(ctx, idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := CreateHoldResponse{HoldID: h.ID.String(), ExpiresAt: h.ExpiresAt}

		if idemStorageKey != "" {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(ctx, idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Get hold with countdown
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Success  200 {object} HoldResponse
// @Failure  404 {object} ErrorResponse
// @Router   /holds/{id} [get]
func handleGetHold(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		v, err := d.Reservations.GetHold(c.Request.Context(), holdID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, toHoldResponse(*v))
	}
}

// @Summary  Confirm hold
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Success  201 {object} ReservationResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "hold expired / sales closed"
// @Router   /holds/{id}/confirm [post]
func handleConfirmHold(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		res, err := d.Reservations.ConfirmHold(c.Request.Context(), holdID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, ReservationResponse{
			ReservationID: res.ID.String(),
			EventID:       res.EventID,
			Seats:         res.Seats,
		})
	}
}

// @Summary  Cancel hold
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Success  204
// @Failure  404 {object} ErrorResponse
// @Router   /holds/{id} [delete]
func handleCancelHold(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		respondErr(c, d.Reservations.CancelHold(c.Request.Context(), holdID))
	}
}

// @Summary  Get venue
// @Param    id  path  int  true  "Venue ID"
// @Success  200  {object}  domain.Venue
// @Failure  404  {object}  ErrorResponse
// @Router   /venues/{id} [get]
func handleGetVenue(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		v, err := d.Venues.GetVenue(c.Request.Context(), venueID)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, v, "public, max-age=60", true)
	}
}

// @Summary  Create venue
// @Param    req body  CreateVenueRequest true "payload"
// @Success  201 {object} CreateVenueResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/venues [post]
func handleCreateVenue(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVenueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		v, err := d.Venues.CreateVenue(c.Request.Context(), req.Name, req.Address, req.Capacity)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreateVenueResponse{VenueID: v.ID})
	}
}

// @Summary  Create event
// @Description Start is either starts_at (RFC 3339) or date + time + optional timezone.
// @Param    req body  CreateEventRequest true "payload"
// @Success  201 {object} CreateEventResponse
// @Failure  400 {object} ErrorResponse "invalid event timing"
// @Failure  404 {object} ErrorResponse "venue not found"
// @Router   /admin/events [post]
func handleCreateEvent(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		var (
			starts time.Time
			err    error
		)
		switch {
		case req.StartsAt != "":
			starts, err = lifecycle.ParseStartRFC3339(req.StartsAt)
		default:
			starts, err = lifecycle.ParseStart(req.Date, req.Time, req.Timezone)
		}
		if err != nil {
			respondErr(c, err)
			return
		}

		e, err := d.Events.CreateEvent(c.Request.Context(), events.CreateEventInput{
			VenueID:                  req.VenueID,
			Title:                    req.Title,
			StartsAt:                 starts,
			DurationHours:            req.DurationHours,
			TicketClosingOffsetHours: req.TicketClosingOffsetHours,
			MinimumSeats:             req.MinimumSeats,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreateEventResponse{EventID: e.ID})
	}
}

// @Summary  Reconcile event statuses
// @Description Persists completed/cancelled for every event whose sale window has closed.
// @Success  200 {object} reconcile.Result
// @Failure  500 {object} reconcile.Result
// @Router   /admin/events/update-statuses [post]
func handleUpdateStatuses(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := d.Reconciler.ReconcileAll(c.Request.Context())
		if !res.Success {
			c.JSON(http.StatusInternalServerError, res)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// --- Helpers ---

func replayCreated(c *gin.Context, idemKey, payload string) {
	c.Header("Idempotency-Key", idemKey)
	c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
