package booking

import (
	"context"

	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
)

const (
	GuestBookingsKey = "booking.list_by_guest"
	HotelBookingsKey = "booking.list_by_hotel"
)

// GuestBookingsQuery lists a guest's own bookings, newest first.
type GuestBookingsQuery struct {
	GuestID string
}

func (q GuestBookingsQuery) Key() string { return GuestBookingsKey }

type GuestBookingsHandler struct {
	UoWFactory uow.Factory
}

func (h *GuestBookingsHandler) Handle(ctx context.Context, q GuestBookingsQuery) (dto.BookingCollection, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	list, err := unit.Bookings().ListByGuest(ctx, domainuser.ID(q.GuestID))
	if err != nil {
		return dto.BookingCollection{}, err
	}
	return collectBookings(ctx, unit, list, false)
}

// HotelBookingsQuery lists bookings for a hotel the caller owns.
type HotelBookingsQuery struct {
	HotelID string
	OwnerID string
}

func (q HotelBookingsQuery) Key() string { return HotelBookingsKey }

type HotelBookingsHandler struct {
	UoWFactory uow.Factory
}

func (h *HotelBookingsHandler) Handle(ctx context.Context, q HotelBookingsQuery) (dto.BookingCollection, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(q.HotelID))
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if err := hotel.OwnedBy(domainuser.ID(q.OwnerID)); err != nil {
		return dto.BookingCollection{}, err
	}
	list, err := unit.Bookings().ListByHotel(ctx, hotel.ID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	return collectBookings(ctx, unit, list, true)
}

func collectBookings(ctx context.Context, unit uow.UnitOfWork, list []*domainbooking.Booking, includeGuest bool) (dto.BookingCollection, error) {
	hotels := make(map[domainhotel.ID]*domainhotel.Hotel)
	items := make([]dto.BookingSummary, 0, len(list))
	for _, b := range list {
		hotel, ok := hotels[b.HotelID]
		if !ok {
			var err error
			hotel, err = unit.Hotels().ByID(ctx, b.HotelID)
			if err != nil {
				return dto.BookingCollection{}, err
			}
			hotels[b.HotelID] = hotel
		}
		items = append(items, dto.MapBookingSummary(b, hotel, includeGuest))
	}
	return dto.BookingCollection{Items: items, Total: len(items)}, nil
}

var _ queries.Handler[GuestBookingsQuery, dto.BookingCollection] = (*GuestBookingsHandler)(nil)
var _ queries.Handler[HotelBookingsQuery, dto.BookingCollection] = (*HotelBookingsHandler)(nil)
