package booking

import (
	"time"

	"staybook/internal/domain/shared/datekey"
	"staybook/internal/domain/shared/daterange"
)

// IsDateBooked reports whether the given day falls inside any active
// booking's stay. Check-in is inclusive and check-out exclusive: a guest
// departing on day X does not block day X for a new arrival.
func IsDateBooked(day datekey.Key, bookings []*Booking) bool {
	return BookingForDate(day, bookings) != nil
}

// BookingForDate returns the booking occupying the given day, or nil.
// Only bookings with an active status are considered. When several active
// bookings cover the same day the first in input order wins; overlapping
// active bookings are a data error this lookup does not try to resolve.
func BookingForDate(day datekey.Key, bookings []*Booking) *Booking {
	for _, b := range bookings {
		if b == nil || !b.Status.Active() {
			continue
		}
		if b.Range.ContainsDay(day) {
			return b
		}
	}
	return nil
}

// RangeConflicts reports whether the proposed half-open stay overlaps any
// active booking. Callers gate submission on this before creating a booking.
func RangeConflicts(proposed daterange.Range, bookings []*Booking) bool {
	for _, b := range bookings {
		if b == nil || !b.Status.Active() {
			continue
		}
		if proposed.Overlaps(b.Range) {
			return true
		}
	}
	return false
}

func todayKey(now time.Time) datekey.Key {
	return datekey.FromTime(now)
}
