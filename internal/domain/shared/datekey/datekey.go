// Package datekey defines the canonical calendar-day identifier used across
// booking and availability logic. A DateKey is always derived from the local
// calendar components of a time.Time, never from a UTC conversion, so two
// instants on the same local day map to the same key regardless of time of day.
package datekey

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDate = errors.New("datekey: invalid date")

const layout = "2006-01-02"

// Key is a calendar day in canonical "YYYY-MM-DD" form. Lexicographic
// comparison of two keys matches chronological comparison of their days.
type Key string

// FromTime derives the key for t's local calendar day.
func FromTime(t time.Time) Key {
	return Key(fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day()))
}

// Parse validates a raw string and returns it as a Key. Unlike the lenient
// never-matches behavior this replaces, malformed input is reported to the
// caller so "not booked" and "could not determine" stay distinguishable.
func Parse(raw string) (Key, error) {
	t, err := time.Parse(layout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return FromTime(t), nil
}

// Time returns the key's day at midnight in the given location.
func (k Key) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(layout, string(k), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, string(k))
	}
	return t, nil
}

// Valid reports whether k is a well-formed calendar day.
func (k Key) Valid() bool {
	_, err := time.Parse(layout, string(k))
	return err == nil
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool { return k == "" }

// Before reports whether k's day precedes other's.
func (k Key) Before(other Key) bool { return k < other }

// After reports whether k's day follows other's.
func (k Key) After(other Key) bool { return k > other }

// Next returns the key for the following day.
func (k Key) Next() Key {
	t, err := k.Time(time.UTC)
	if err != nil {
		return k
	}
	return FromTime(t.AddDate(0, 0, 1))
}

func (k Key) String() string { return string(k) }
