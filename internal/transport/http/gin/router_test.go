package httpgin

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tixlife/internal/clock"
	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/lifecycle"
	"github.com/kirinyoku/tixlife/internal/reconcile"
	redisrepo "github.com/kirinyoku/tixlife/internal/repository/redis"
	"github.com/kirinyoku/tixlife/internal/service/events"
	"github.com/kirinyoku/tixlife/internal/service/reservations"
	"github.com/kirinyoku/tixlife/internal/service/venues"
)

var testNow = time.Date(2024, 1, 19, 12, 30, 0, 0, time.UTC)

type testEnv struct {
	venues       *MockVenueService
	events       *MockEventService
	reservations *MockReservationService
	reconciler   *MockReconciler
	trigger      *MockTrigger
	idem         *memoryIdempotency
	hub          *EventHub
	router       *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		venues:       new(MockVenueService),
		events:       new(MockEventService),
		reservations: new(MockReservationService),
		reconciler:   new(MockReconciler),
		trigger:      new(MockTrigger),
		idem:         newMemoryIdempotency(),
		hub:          NewEventHub(),
	}

	env.router = NewRouter(Deps{
		Venues:       env.venues,
		Events:       env.events,
		Reservations: env.reservations,
		Reconciler:   env.reconciler,
		Trigger:      env.trigger,
		Idempotency:  env.idem,
		Hub:          env.hub,
		Clock:        clock.NewFixed(testNow),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return env
}

func (e *testEnv) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	return w
}

func concert(bookings int) domain.EventWithBookings {
	offset := 24.0
	return domain.EventWithBookings{
		Event: domain.Event{
			ID:                       7,
			VenueID:                  1,
			Title:                    "Concert",
			StartsAt:                 time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC),
			DurationHours:            2,
			TicketClosingOffsetHours: &offset,
			MinimumSeats:             10,
			Status:                   domain.StatusUpcoming,
		},
		TotalBookings: bookings,
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGetEvent(t *testing.T) {
	env := newTestEnv(t)
	view := events.BuildView(concert(4), testNow)
	env.events.On("GetEvent", mock.Anything, int64(7)).Return(&view, nil)

	w := env.do(http.MethodGet, "/events/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))

	var resp EventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusUpcoming, resp.EffectiveStatus)
	assert.Equal(t, 4, resp.TotalBookings)
	require.NotNil(t, resp.Countdown)
	assert.Equal(t, "1 hour 30 minutes", resp.Countdown.Display)
	assert.Equal(t, "critical", resp.Countdown.Urgency)

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = env.do(http.MethodGet, "/events/7", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestGetEventErrors(t *testing.T) {
	env := newTestEnv(t)
	env.events.On("GetEvent", mock.Anything, int64(8)).Return(nil, fmt.Errorf("op: %w", events.ErrEventNotFound))
	env.events.On("GetEvent", mock.Anything, int64(9)).Return(nil, fmt.Errorf("db down"))

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/events/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/events/8", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, env.do(http.MethodGet, "/events/9", nil).Code)
}

func TestListEventsFiresReconcile(t *testing.T) {
	env := newTestEnv(t)
	closed := events.BuildView(concert(15), time.Date(2024, 1, 19, 15, 0, 0, 0, time.UTC))
	env.trigger.On("Fire", mock.Anything).Return(true).Once()
	env.events.On("ListEvents", mock.Anything, 5, 10).Return([]events.EventView{closed}, nil)

	w := env.do(http.MethodGet, "/events?limit=5&offset=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []EventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, domain.StatusCompleted, resp[0].EffectiveStatus)
	assert.Equal(t, domain.StatusUpcoming, resp[0].Status)
	assert.Nil(t, resp[0].Countdown)

	env.trigger.AssertExpectations(t)
}

func TestCreateEvent(t *testing.T) {
	env := newTestEnv(t)
	offset := 24.0

	env.events.On("CreateEvent", mock.Anything, events.CreateEventInput{
		VenueID:                  1,
		Title:                    "Concert",
		StartsAt:                 time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC),
		DurationHours:            2,
		TicketClosingOffsetHours: &offset,
		MinimumSeats:             10,
	}).Return(&domain.Event{ID: 11}, nil).Twice()

	w := env.do(http.MethodPost, "/admin/events", map[string]any{
		"venue_id":                    1,
		"title":                       "Concert",
		"starts_at":                   "2024-01-20T16:00:00+02:00",
		"duration_hours":              2,
		"ticket_closing_offset_hours": 24,
		"minimum_seats":               10,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"event_id":11}`, w.Body.String())

	w = env.do(http.MethodPost, "/admin/events", map[string]any{
		"venue_id":                    1,
		"title":                       "Concert",
		"date":                        "2024-01-20",
		"time":                        "14:00",
		"duration_hours":              2,
		"ticket_closing_offset_hours": 24,
		"minimum_seats":               10,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	env.events.AssertExpectations(t)
}

func TestCreateEventInvalidTiming(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/admin/events", map[string]any{
		"venue_id": 1,
		"title":    "Concert",
		"date":     "2024-02-30",
		"time":     "14:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid event timing")

	env.events.On("CreateEvent", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("op: %w", &domain.InvalidEventTimingError{Field: "duration_hours", Reason: "must not be negative"})).Once()

	w = env.do(http.MethodPost, "/admin/events", map[string]any{
		"venue_id":       1,
		"title":          "Concert",
		"starts_at":      "2024-01-20T14:00:00Z",
		"duration_hours": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "duration_hours")
}

func TestCreateHoldIdempotent(t *testing.T) {
	env := newTestEnv(t)
	holdID := uuid.New()
	expires := testNow.Add(10 * time.Minute)

	env.reservations.
		On("CreateHold", mock.Anything, int64(7), int64(3), 2, 5*time.Minute, mock.AnythingOfType("string")).
		Return(&domain.Hold{ID: holdID, EventID: 7, UserID: 3, Seats: 2, ExpiresAt: expires}, nil).
		Once()

	body := map[string]any{"user_id": 3, "seats": 2, "ttl_sec": 300}

	w := env.do(http.MethodPost, "/events/7/holds", body, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "k1", w.Header().Get("Idempotency-Key"))

	replay := env.do(http.MethodPost, "/events/7/holds", body, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.JSONEq(t, w.Body.String(), replay.Body.String())

	env.reservations.AssertNumberOfCalls(t, "CreateHold", 1)
}

func TestCreateHoldErrors(t *testing.T) {
	env := newTestEnv(t)

	env.reservations.On("CreateHold", mock.Anything, int64(7), int64(1), 1, time.Duration(0), mock.Anything).
		Return(nil, fmt.Errorf("op: %w", reservations.ErrSalesClosed)).Once()
	env.reservations.On("CreateHold", mock.Anything, int64(7), int64(2), 1, time.Duration(0), mock.Anything).
		Return(nil, fmt.Errorf("op: %w", &reservations.RateLimitedError{RetryAfter: 1500 * time.Millisecond})).Once()

	w := env.do(http.MethodPost, "/events/7/holds", map[string]any{"user_id": 1, "seats": 1}, "Idempotency-Key", "k2")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ticket sales are closed")
	// The failed attempt released its key.
	assert.Empty(t, env.idem.locks)

	w = env.do(http.MethodPost, "/events/7/holds", map[string]any{"user_id": 2, "seats": 1})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	w = env.do(http.MethodPost, "/events/7/holds", map[string]any{"user_id": 2, "seats": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHoldEndpoints(t *testing.T) {
	env := newTestEnv(t)
	holdID := uuid.New()
	hold := domain.Hold{ID: holdID, EventID: 7, UserID: 3, Seats: 2, ExpiresAt: testNow.Add(90 * time.Second)}
	c, _ := lifecycle.HoldCountdown(hold.CartHold(), testNow)

	env.reservations.On("GetHold", mock.Anything, holdID).
		Return(&reservations.HoldView{Hold: hold, Countdown: c, Active: true}, nil)
	env.reservations.On("ConfirmHold", mock.Anything, holdID).
		Return(&domain.Reservation{ID: uuid.New(), EventID: 7, Seats: 2}, nil)
	env.reservations.On("CancelHold", mock.Anything, holdID).
		Return(fmt.Errorf("op: %w", reservations.ErrHoldNotFound))

	w := env.do(http.MethodGet, "/holds/"+holdID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HoldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Active)
	assert.Equal(t, "01:30", resp.Countdown.Display)
	assert.Equal(t, int64(90), resp.Countdown.RemainingSeconds)

	w = env.do(http.MethodPost, "/holds/"+holdID.String()+"/confirm", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodDelete, "/holds/"+holdID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/holds/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVenueEndpoints(t *testing.T) {
	env := newTestEnv(t)

	env.venues.On("CreateVenue", mock.Anything, "Arena", "Main St", 100).Return(&domain.Venue{ID: 4}, nil)
	env.venues.On("CreateVenue", mock.Anything, "Dup", "", 0).Return(nil, fmt.Errorf("op: %w", venues.ErrVenueConflict))
	env.venues.On("GetVenue", mock.Anything, int64(4)).Return(&domain.Venue{ID: 4, Name: "Arena"}, nil)

	w := env.do(http.MethodPost, "/admin/venues", map[string]any{"name": "Arena", "address": "Main St", "capacity": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"venue_id":4}`, w.Body.String())

	w = env.do(http.MethodPost, "/admin/venues", map[string]any{"name": "Dup"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodGet, "/venues/4", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Arena")
}

func TestUpdateStatuses(t *testing.T) {
	env := newTestEnv(t)
	env.reconciler.On("ReconcileAll", mock.Anything).
		Return(reconcile.Result{Success: true, Message: "checked 2 events"}).Once()
	env.reconciler.On("ReconcileAll", mock.Anything).
		Return(reconcile.Result{Success: false, Message: "db down"}).Once()

	w := env.do(http.MethodPost, "/admin/events/update-statuses", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"checked 2 events"}`, w.Body.String())

	w = env.do(http.MethodPost, "/admin/events/update-statuses", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"db down"}`, w.Body.String())
}

func readFrames(t *testing.T, url string) []string {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var frames []string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if data, ok := strings.CutPrefix(sc.Text(), "data:"); ok {
			frames = append(frames, data)
		}
	}

	return frames
}

func TestHoldCountdownStreamEndsWhenExpired(t *testing.T) {
	env := newTestEnv(t)
	holdID := uuid.New()
	hold := domain.Hold{ID: holdID, ExpiresAt: testNow.Add(-time.Second)}

	env.reservations.On("GetHold", mock.Anything, holdID).
		Return(&reservations.HoldView{Hold: hold}, nil)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	frames := readFrames(t, srv.URL+"/holds/"+holdID.String()+"/countdown")
	require.Len(t, frames, 1)

	var f HoldCountdownFrame
	require.NoError(t, json.Unmarshal([]byte(frames[0]), &f))
	assert.True(t, f.Expired)
	assert.Equal(t, lifecycle.Expired, f.Countdown.Display)
}

func TestHoldCountdownStreamEndsWhenHoldReleased(t *testing.T) {
	env := newTestEnv(t)
	holdID := uuid.New()
	hold := domain.Hold{ID: holdID, ExpiresAt: testNow.Add(time.Hour)}

	env.reservations.On("GetHold", mock.Anything, holdID).
		Return(&reservations.HoldView{Hold: hold, Active: true}, nil).Once()
	env.reservations.On("GetHold", mock.Anything, holdID).
		Return(nil, reservations.ErrHoldNotFound)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	frames := readFrames(t, srv.URL+"/holds/"+holdID.String()+"/countdown")
	require.Len(t, frames, 2)

	var first, last HoldCountdownFrame
	require.NoError(t, json.Unmarshal([]byte(frames[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(frames[1]), &last))

	assert.False(t, first.Expired)
	assert.Equal(t, "01:00:00", first.Countdown.Display)

	assert.True(t, last.Expired)
	assert.Equal(t, holdID.String(), last.HoldID)
	assert.Equal(t, lifecycle.Expired, last.Countdown.Display)
}

func TestEventCountdownStreamPushesOnChange(t *testing.T) {
	env := newTestEnv(t)
	open := concert(0)
	closed := concert(0)
	closed.Event.StartsAt = testNow.Add(-time.Hour)

	env.events.On("Snapshot", mock.Anything, int64(7)).Return(&open, nil).Once()
	env.events.On("Snapshot", mock.Anything, int64(7)).Return(&closed, nil)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	go func() {
		// Keep notifying until the stream has registered and consumed one.
		for i := 0; i < 100; i++ {
			time.Sleep(20 * time.Millisecond)
			env.hub.Notify(context.Background(), redisrepo.EventChanged{EventID: 7})
		}
	}()

	frames := readFrames(t, srv.URL+"/events/7/countdown")
	require.Len(t, frames, 2)

	var first, last SaleCountdownFrame
	require.NoError(t, json.Unmarshal([]byte(frames[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(frames[1]), &last))

	assert.False(t, first.SalesClosed)
	require.NotNil(t, first.Countdown)
	assert.Equal(t, "1 hour 30 minutes", first.Countdown.Display)

	assert.True(t, last.SalesClosed)
	assert.Nil(t, last.Countdown)
}

func TestEventHubListenStop(t *testing.T) {
	h := NewEventHub()

	ch, stop := h.Listen(1)
	h.Notify(context.Background(), redisrepo.EventChanged{EventID: 1})
	h.Notify(context.Background(), redisrepo.EventChanged{EventID: 1})
	h.Notify(context.Background(), redisrepo.EventChanged{EventID: 2})

	select {
	case <-ch:
	default:
		t.Fatal("expected a wakeup")
	}

	stop()
	stop()
	assert.Empty(t, h.subs)
}
