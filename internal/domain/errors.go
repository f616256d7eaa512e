package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidEventTiming is matched by every InvalidEventTimingError.
var ErrInvalidEventTiming = errors.New("invalid event timing")

// InvalidEventTimingError reports a timing input rejected before it reaches
// the lifecycle engine: negative durations or offsets, malformed timestamps.
type InvalidEventTimingError struct {
	Field  string
	Reason string
}

func (e *InvalidEventTimingError) Error() string {
	return fmt.Sprintf("invalid event timing: %s: %s", e.Field, e.Reason)
}

func (e *InvalidEventTimingError) Is(target error) bool {
	return target == ErrInvalidEventTiming
}
