// Package availability builds the month calendar a room's booking history is
// rendered on, and drives the check-in/check-out selection a visitor makes on
// that calendar. Everything here is pure: bookings are inputs, "today" is an
// injected clock reading, and results are fresh values.
package availability

import (
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/shared/datekey"
)

// Cell is one slot of a month grid. A nil Date marks leading padding before
// the first day of the month.
type Cell struct {
	Date     *time.Time
	Day      datekey.Key
	IsBooked bool
	Booking  *booking.Booking
	IsPast   bool
	IsToday  bool
}

// BuildMonth produces the grid slots for the given month (0-based, matching
// the month index the calendar UI navigates with): first the leading blanks
// for the weekday of the 1st (Sunday = 0), then one entry per day. The tail
// row is left under-filled; callers render in a fixed 7-wide grid.
func BuildMonth(year, month int) []*time.Time {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]*time.Time, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, nil)
	}
	for day := 1; day <= daysInMonth; day++ {
		d := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.Local)
		cells = append(cells, &d)
	}
	return cells
}

// AnnotateMonth builds the month grid and marks every day cell against the
// room's booking history and the current clock reading.
func AnnotateMonth(year, month int, bookings []*booking.Booking, now time.Time) []Cell {
	today := datekey.FromTime(now)
	slots := BuildMonth(year, month)

	cells := make([]Cell, 0, len(slots))
	for _, slot := range slots {
		if slot == nil {
			cells = append(cells, Cell{})
			continue
		}
		day := datekey.FromTime(*slot)
		occupying := booking.BookingForDate(day, bookings)
		cells = append(cells, Cell{
			Date:     slot,
			Day:      day,
			IsBooked: occupying != nil,
			Booking:  occupying,
			IsPast:   day.Before(today),
			IsToday:  day == today,
		})
	}
	return cells
}
