package lifecycle

import (
	"math"
	"strings"
	"time"

	"github.com/kirinyoku/tixlife/internal/domain"
)

// MaxHours is the largest hour count that still fits in a time.Duration.
const MaxHours = float64(math.MaxInt64 / int64(time.Hour))

// ValidateTiming rejects timing attributes the window calculator does not
// accept. It is called where snapshots are built, never by the calculator.
func ValidateTiming(durationHours float64, closingOffsetHours *float64) error {
	if err := checkHours("duration_hours", durationHours); err != nil {
		return err
	}

	if closingOffsetHours != nil {
		if err := checkHours("ticket_closing_offset_hours", *closingOffsetHours); err != nil {
			return err
		}
	}

	return nil
}

func checkHours(field string, h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return &domain.InvalidEventTimingError{Field: field, Reason: "must be a finite number"}
	}
	if h < 0 {
		return &domain.InvalidEventTimingError{Field: field, Reason: "must not be negative"}
	}
	if h > MaxHours {
		return &domain.InvalidEventTimingError{Field: field, Reason: "too large"}
	}
	return nil
}

// ParseStart resolves an event start from separate date ("2006-01-02") and
// time ("15:04", seconds optional) fields in the named IANA zone. An empty
// zone means UTC.
func ParseStart(date, hhmm, zone string) (time.Time, error) {
	loc := time.UTC
	if zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return time.Time{}, &domain.InvalidEventTimingError{Field: "timezone", Reason: err.Error()}
		}
		loc = l
	}

	date = strings.TrimSpace(date)
	hhmm = strings.TrimSpace(hhmm)

	layout := "2006-01-02 15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "2006-01-02 15:04:05"
	}

	t, err := time.ParseInLocation(layout, date+" "+hhmm, loc)
	if err != nil {
		return time.Time{}, &domain.InvalidEventTimingError{Field: "date/time", Reason: err.Error()}
	}

	return t.UTC(), nil
}

// ParseStartRFC3339 parses an RFC 3339 start timestamp.
func ParseStartRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &domain.InvalidEventTimingError{Field: "starts_at", Reason: "expected RFC3339"}
	}
	return t.UTC(), nil
}
