package dto

import (
	"staybook/internal/domain/availability"
	"staybook/internal/domain/booking"
)

// CalendarDay is one renderable slot of the month grid. Padding slots have
// a zero Date and all flags false.
type CalendarDay struct {
	Date      string `json:"date,omitempty"`
	Padding   bool   `json:"padding,omitempty"`
	IsBooked  bool   `json:"is_booked,omitempty"`
	IsPast    bool   `json:"is_past,omitempty"`
	IsToday   bool   `json:"is_today,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	GuestName string `json:"guest_name,omitempty"`
}

type RoomCalendar struct {
	RoomID   string          `json:"room_id"`
	Year     int             `json:"year"`
	Month    int             `json:"month"` // 0-based, as the calendar UI navigates
	Days     []CalendarDay   `json:"days"`
	Occupied []OccupiedRange `json:"occupied,omitempty"`
}

// MapRoomCalendar converts annotated month cells to the wire shape.
// Guest names are only exposed to the room's owner.
func MapRoomCalendar(roomID string, year, month int, cells []availability.Cell, includeGuests bool) RoomCalendar {
	days := make([]CalendarDay, 0, len(cells))
	for _, cell := range cells {
		if cell.Date == nil {
			days = append(days, CalendarDay{Padding: true})
			continue
		}
		day := CalendarDay{
			Date:     cell.Day.String(),
			IsBooked: cell.IsBooked,
			IsPast:   cell.IsPast,
			IsToday:  cell.IsToday,
		}
		if cell.Booking != nil {
			day.BookingID = string(cell.Booking.ID)
			if includeGuests {
				day.GuestName = cell.Booking.GuestName
			}
		}
		days = append(days, day)
	}
	return RoomCalendar{RoomID: roomID, Year: year, Month: month, Days: days}
}

// OccupiedRange is a booked interval reported alongside the grid so clients
// can validate a proposed range without walking day cells.
type OccupiedRange struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Status   string `json:"status"`
}

func MapOccupiedRanges(bookings []*booking.Booking) []OccupiedRange {
	out := make([]OccupiedRange, 0, len(bookings))
	for _, b := range bookings {
		if !b.Status.Active() {
			continue
		}
		out = append(out, OccupiedRange{
			CheckIn:  b.Range.CheckIn.String(),
			CheckOut: b.Range.CheckOut.String(),
			Status:   string(b.Status),
		})
	}
	return out
}
