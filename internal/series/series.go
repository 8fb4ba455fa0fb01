package series

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date key format used throughout the store.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound is returned when the series holds no measurement.
	ErrNotFound = errors.New("measurement not found")

	// ErrBadDate is returned for keys not in YYYY-MM-DD form.
	ErrBadDate = errors.New("bad date key")
)

// Measurement is one (date, value) pair of the tracked series.
type Measurement struct {
	Date   string
	Weight float64
}

// Store is the time-series persistence boundary.
type Store interface {
	// Upsert writes or overwrites the measurement for date.
	// Atomic per date: concurrent upserts for the same date never
	// interleave partial writes.
	Upsert(ctx context.Context, date string, weight float64) error

	// Current returns the measurement with the maximum date.
	// Returns ErrNotFound when the series is empty.
	Current(ctx context.Context) (Measurement, error)

	// All returns every measurement ascending by date.
	// An empty series yields an empty slice, not an error.
	All(ctx context.Context) ([]Measurement, error)
}

// Today normalizes now to the calendar-date key, always in UTC.
// The write path never trusts a client-supplied date.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// NormalizeDate validates and canonicalizes a date key.
func NormalizeDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	return t.Format(DateLayout), nil
}
