package httpgin

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/tixlife/internal/domain"
	"github.com/kirinyoku/tixlife/internal/service/events"
	"github.com/kirinyoku/tixlife/internal/service/reservations"
	"github.com/kirinyoku/tixlife/internal/service/venues"
)

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var timing *domain.InvalidEventTimingError
	var limited *reservations.RateLimitedError

	switch {
	case errors.As(err, &timing):
		badRequest(c, timing.Error())
	case errors.Is(err, events.ErrInvalidEvent),
		errors.Is(err, venues.ErrInvalidVenue),
		errors.Is(err, reservations.ErrInvalidSeats):
		badRequest(c, err.Error())

	case errors.As(err, &limited):
		secs := int(math.Ceil(limited.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})

	case errors.Is(err, events.ErrEventNotFound),
		errors.Is(err, reservations.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
	case errors.Is(err, events.ErrVenueNotFound),
		errors.Is(err, venues.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
	case errors.Is(err, reservations.ErrHoldNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "hold not found"})

	case errors.Is(err, venues.ErrVenueConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "venue conflict"})
	case errors.Is(err, reservations.ErrSalesClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "ticket sales are closed"})
	case errors.Is(err, reservations.ErrSeatsUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seats unavailable"})
	case errors.Is(err, reservations.ErrHoldExpired):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "hold expired"})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
