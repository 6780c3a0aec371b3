package availability

import (
	"errors"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/shared/datekey"
)

var (
	ErrPastDate   = errors.New("availability: cannot pick a past date")
	ErrDateBooked = errors.New("availability: date already booked")
)

// Selection holds the visitor's current check-in/check-out pick. The zero
// value is the empty selection. Implicit states: Empty (both unset),
// Partial (check-in only), Full (both set, CheckIn < CheckOut).
type Selection struct {
	CheckIn  datekey.Key
	CheckOut datekey.Key
}

func (s Selection) Empty() bool   { return s.CheckIn.IsZero() && s.CheckOut.IsZero() }
func (s Selection) Partial() bool { return !s.CheckIn.IsZero() && s.CheckOut.IsZero() }
func (s Selection) Full() bool    { return !s.CheckIn.IsZero() && !s.CheckOut.IsZero() }

// GuardClick enforces the caller-side preconditions for a calendar click:
// past days and occupied days are rejected before any transition runs, so
// the transition function itself stays total.
func GuardClick(day datekey.Key, today datekey.Key, bookings []*booking.Booking) error {
	if day.Before(today) {
		return ErrPastDate
	}
	if booking.IsDateBooked(day, bookings) {
		return ErrDateBooked
	}
	return nil
}

// Click applies one calendar click to the selection and returns the next
// state. Repeated and out-of-order clicks re-anchor the selection:
//
//	Empty:   any click starts a new check-in.
//	Partial: a later day completes the range; an earlier day replaces the
//	         check-in; clicking the check-in again clears the selection.
//	Full:    clicking the check-in clears everything; clicking the
//	         check-out drops only the check-out; a day before check-in
//	         restarts from that day; a day after check-out extends the
//	         range; a day strictly inside shrinks the check-out to it.
func (s Selection) Click(day datekey.Key) Selection {
	switch {
	case s.Empty():
		return Selection{CheckIn: day}

	case s.Partial():
		switch {
		case day.After(s.CheckIn):
			return Selection{CheckIn: s.CheckIn, CheckOut: day}
		case day.Before(s.CheckIn):
			return Selection{CheckIn: day}
		default:
			return Selection{}
		}

	default: // Full
		switch {
		case day == s.CheckIn:
			return Selection{}
		case day == s.CheckOut:
			return Selection{CheckIn: s.CheckIn}
		case day.Before(s.CheckIn):
			return Selection{CheckIn: day}
		default:
			// Inside the range or past the check-out: either way the
			// clicked day becomes the new check-out.
			return Selection{CheckIn: s.CheckIn, CheckOut: day}
		}
	}
}
