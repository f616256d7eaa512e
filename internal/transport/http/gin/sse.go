package httpgin

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/tixlife/internal/lifecycle"
	"github.com/kirinyoku/tixlife/internal/service/reservations"
)

func startStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
}

// @Summary  Stream the ticket sale countdown
// @Description Server-sent "countdown" events: one on connect, one per minute and one whenever the event changes. The stream ends once sales close.
// @Param    id  path  int  true  "Event ID"
// @Produce  text/event-stream
// @Success  200 {object} SaleCountdownFrame
// @Failure  404 {object} ErrorResponse
// @Router   /events/{id}/countdown [get]
func handleEventCountdown(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		ctx := c.Request.Context()

		ev, err := d.Events.Snapshot(ctx, eventID)
		if err != nil {
			respondErr(c, err)
			return
		}

		var changed <-chan struct{}
		if d.Hub != nil {
			ch, stop := d.Hub.Listen(eventID)
			defer stop()
			changed = ch
		}

		tk := lifecycle.NewTicker(ctx, d.Clock, lifecycle.SaleTickInterval)
		defer tk.Stop()

		now, ok := <-tk.C
		if !ok {
			return
		}

		startStream(c)

		frame := saleCountdownFrame(*ev, now)
		c.SSEvent("countdown", frame)
		c.Writer.Flush()
		if frame.SalesClosed {
			return
		}

		c.Stream(func(w io.Writer) bool {
			select {
			case t, ok := <-tk.C:
				if !ok {
					return false
				}
				now = t
			case <-changed:
				now = d.Clock.Now()
				if fresh, err := d.Events.Snapshot(ctx, eventID); err == nil {
					ev = fresh
				}
			}

			frame := saleCountdownFrame(*ev, now)
			c.SSEvent("countdown", frame)

			return !frame.SalesClosed
		})
	}
}

// @Summary  Stream the cart hold countdown
// @Description Server-sent "countdown" events once per second until the hold expires or is released.
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Produce  text/event-stream
// @Success  200 {object} HoldCountdownFrame
// @Failure  404 {object} ErrorResponse
// @Router   /holds/{id}/countdown [get]
func handleHoldCountdown(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		ctx := c.Request.Context()

		v, err := d.Reservations.GetHold(ctx, holdID)
		if err != nil {
			respondErr(c, err)
			return
		}

		tk := lifecycle.NewTicker(ctx, d.Clock, lifecycle.HoldTickInterval)
		defer tk.Stop()

		startStream(c)

		first := true
		c.Stream(func(w io.Writer) bool {
			now, ok := <-tk.C
			if !ok {
				return false
			}

			// The hold may be confirmed or cancelled while we stream.
			if !first {
				v, err = d.Reservations.GetHold(ctx, holdID)
				switch {
				case errors.Is(err, reservations.ErrHoldNotFound):
					c.SSEvent("countdown", releasedHoldFrame(holdID, now))
					return false
				case err != nil:
					_ = c.Error(err)
					return false
				}
			}
			first = false

			frame := holdCountdownFrame(v.Hold, now)
			c.SSEvent("countdown", frame)

			return !frame.Expired
		})
	}
}
