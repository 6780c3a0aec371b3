package daterange

import (
	"errors"
	"fmt"
	"time"

	"staybook/internal/domain/shared/datekey"
)

var (
	ErrInvalidRange = errors.New("daterange: check-out must be after check-in")
	ErrInvalidDay   = errors.New("daterange: malformed calendar day")
)

// Range represents a half-open stay interval [CheckIn, CheckOut): the
// check-out day itself is free for a new arrival.
type Range struct {
	CheckIn  datekey.Key
	CheckOut datekey.Key
}

func New(checkIn, checkOut datekey.Key) (Range, error) {
	r := Range{CheckIn: checkIn, CheckOut: checkOut}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) Validate() error {
	if !r.CheckIn.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDay, r.CheckIn)
	}
	if !r.CheckOut.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDay, r.CheckOut)
	}
	if !r.CheckIn.Before(r.CheckOut) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps reports whether two half-open ranges share at least one night.
// [a,b) and [c,d) intersect iff a < d && c < b; the single inequality also
// covers the "fully contains" case that a three-branch check can miss.
func (r Range) Overlaps(other Range) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// ContainsDay reports whether the given day falls inside the stay,
// check-in inclusive, check-out exclusive.
func (r Range) ContainsDay(day datekey.Key) bool {
	return !day.Before(r.CheckIn) && day.Before(r.CheckOut)
}

// Nights counts the nights covered by the range. Both endpoints resolve in
// UTC so a stay crossing a daylight-saving shift still counts whole
// calendar days.
func (r Range) Nights() int {
	in, err := r.CheckIn.Time(time.UTC)
	if err != nil {
		return 0
	}
	out, err := r.CheckOut.Time(time.UTC)
	if err != nil {
		return 0
	}
	return int(out.Sub(in).Hours() / 24)
}

// Days enumerates every occupied day of the range in order.
func (r Range) Days() []datekey.Key {
	if r.Validate() != nil {
		return nil
	}
	var days []datekey.Key
	for d := r.CheckIn; d.Before(r.CheckOut); d = d.Next() {
		days = append(days, d)
	}
	return days
}
