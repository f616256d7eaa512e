package reservations

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrSalesClosed      = errors.New("ticket sales are closed")
	ErrSeatsUnavailable = errors.New("not enough seats available")
	ErrInvalidSeats     = errors.New("invalid seat count")
	ErrHoldNotFound     = errors.New("hold not found")
	ErrHoldExpired      = errors.New("hold is expired")
	ErrRateLimited      = errors.New("rate limited")
)

// RateLimitedError reports how long the caller should wait before retrying.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
