package availability

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	"staybook/internal/domain/availability"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
)

const getCalendarKey = "availability.calendar"

var ErrMonthOutOfRange = errors.New("availability: month must be between 0 and 11")

// GetCalendarQuery renders one month of a room's booking calendar. Month is
// zero-based to match the grid builder. Guest names are only included when
// the caller owns the hotel.
type GetCalendarQuery struct {
	HotelID  string
	RoomID   string
	Year     int
	Month    int
	CallerID string
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.RoomCalendar, error) {
	if q.Month < 0 || q.Month > 11 {
		return dto.RoomCalendar{}, ErrMonthOutOfRange
	}

	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.RoomCalendar{}, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(q.HotelID))
	if err != nil {
		return dto.RoomCalendar{}, err
	}
	room, err := hotel.Room(domainhotel.RoomID(q.RoomID))
	if err != nil {
		return dto.RoomCalendar{}, err
	}

	bookings, err := unit.Bookings().ListByRoom(ctx, room.ID)
	if err != nil {
		return dto.RoomCalendar{}, err
	}

	includeGuests := q.CallerID != "" && hotel.OwnedBy(domainuser.ID(q.CallerID)) == nil
	cells := availability.AnnotateMonth(q.Year, q.Month, bookings, h.now())
	calendar := dto.MapRoomCalendar(string(room.ID), q.Year, q.Month, cells, includeGuests)
	calendar.Occupied = dto.MapOccupiedRanges(bookings)
	return calendar, nil
}

func (h *GetCalendarHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ queries.Handler[GetCalendarQuery, dto.RoomCalendar] = (*GetCalendarHandler)(nil)
