package booking

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/domain/shared/datekey"
	"staybook/internal/domain/shared/daterange"
)

const RequestBookingKey = "booking.request"

var (
	ErrRangeUnavailable = errors.New("booking: requested dates are no longer available")
	ErrHotelNotBookable = errors.New("booking: hotel is not open for bookings")
	ErrCapacityExceeded = errors.New("booking: too many guests for this room")
)

type RequestBookingCommand struct {
	CommandID       string
	HotelID         string
	RoomID          string
	GuestID         string
	GuestName       string
	CheckIn         string
	CheckOut        string
	Guests          int
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return RequestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID string `json:"booking_id"`
	Total     int64  `json:"total"`
	Currency  string `json:"currency"`
}

type RequestBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	checkIn, err := datekey.Parse(cmd.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := datekey.Parse(cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	stay, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	now := h.now()
	if err := domainbooking.ValidateCheckIn(stay, now); err != nil {
		return nil, err
	}

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(cmd.HotelID))
	if err != nil {
		return nil, err
	}
	if !hotel.Visible() {
		return nil, ErrHotelNotBookable
	}
	room, err := hotel.Room(domainhotel.RoomID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	if cmd.Guests > room.Capacity {
		return nil, ErrCapacityExceeded
	}

	existing, err := unit.Bookings().ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	if domainbooking.RangeConflicts(stay, existing) {
		return nil, ErrRangeUnavailable
	}

	total := room.NightlyRate.Multiply(int64(stay.Nights()))
	booked, err := domainbooking.New(domainbooking.CreateParams{
		ID:        domainbooking.ID(cmd.CommandID),
		HotelID:   hotel.ID,
		RoomID:    room.ID,
		GuestID:   domainuser.ID(cmd.GuestID),
		GuestName: cmd.GuestName,
		Range:     stay,
		Guests:    cmd.Guests,
		Total:     total,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, booked); err != nil {
		return nil, err
	}
	if err := outbox.DrainRecorder(ctx, h.Outbox, h.Encoder, booked); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RequestBookingResult{
		BookingID: string(booked.ID),
		Total:     booked.Total.Amount,
		Currency:  booked.Total.Currency,
	}, nil
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = RequestBookingCommand{}
