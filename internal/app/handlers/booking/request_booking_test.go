package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/commands"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	"staybook/internal/domain/shared/datekey"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	"staybook/internal/infra/storage/memory"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type bookingFixture struct {
	factory memory.Factory
	box     *memory.Outbox
	handler *RequestBookingHandler
	hotel   *domainhotel.Hotel
	room    domainhotel.Room
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	ctx := context.Background()
	factory := memory.NewFactory()

	h, err := domainhotel.New(domainhotel.CreateParams{
		ID:    "hotel-1",
		Owner: "owner-1",
		Name:  "Riverside",
		Address: domainhotel.Address{
			Line1:   "12 Quay St",
			City:    "Da Nang",
			Country: "VN",
		},
		Now: testNow,
	})
	require.NoError(t, err)
	room, err := h.AddRoom("room-1", "Deluxe", money.VND(1_200_000), 2, testNow)
	require.NoError(t, err)
	require.NoError(t, h.Approve(testNow))
	require.NoError(t, factory.HotelRepo.Save(ctx, h))

	box := memory.NewOutbox()
	return &bookingFixture{
		factory: factory,
		box:     box,
		handler: &RequestBookingHandler{
			UoWFactory: factory,
			Outbox:     box,
			Encoder:    outbox.JSONEventEncoder{},
			Now:        func() time.Time { return testNow },
		},
		hotel: h,
		room:  room,
	}
}

func (f *bookingFixture) command(id, checkIn, checkOut string) RequestBookingCommand {
	return RequestBookingCommand{
		CommandID: id,
		HotelID:   string(f.hotel.ID),
		RoomID:    string(f.room.ID),
		GuestID:   "guest-1",
		GuestName: "Pat",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	}
}

func TestRequestBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	result, err := f.handler.Handle(ctx, f.command("bk-1", "2025-06-10", "2025-06-13"))
	require.NoError(t, err)
	assert.Equal(t, "bk-1", result.BookingID)
	assert.Equal(t, int64(3_600_000), result.Total) // three nights

	saved, err := f.factory.BookingRepo.ByID(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, saved.Status)
	assert.NotEmpty(t, f.box.Pending(), "booking events reach the outbox")
}

func TestRequestBookingRejectsOverlap(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.handler.Handle(ctx, f.command("bk-1", "2025-06-10", "2025-06-13"))
	require.NoError(t, err)

	cases := []struct {
		name              string
		checkIn, checkOut string
		wantErr           error
	}{
		{"full overlap", "2025-06-10", "2025-06-13", ErrRangeUnavailable},
		{"partial overlap", "2025-06-12", "2025-06-15", ErrRangeUnavailable},
		{"contained", "2025-06-11", "2025-06-12", ErrRangeUnavailable},
		{"checkout day is free", "2025-06-13", "2025-06-15", nil},
		{"ends on checkin day", "2025-06-08", "2025-06-10", nil},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := "bk-next-" + string(rune('a'+i))
			_, err := f.handler.Handle(ctx, f.command(id, tc.checkIn, tc.checkOut))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequestBookingIgnoresInactiveBookings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	stay, err := daterange.New(datekey.Key("2025-06-10"), datekey.Key("2025-06-13"))
	require.NoError(t, err)
	cancelled, err := domainbooking.New(domainbooking.CreateParams{
		ID:        "bk-cancelled",
		HotelID:   f.hotel.ID,
		RoomID:    f.room.ID,
		GuestID:   "guest-2",
		Range:     stay,
		Guests:    1,
		Total:     money.VND(3_600_000),
		CreatedAt: testNow,
	})
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel("changed plans", testNow))
	require.NoError(t, f.factory.BookingRepo.Save(ctx, cancelled))

	_, err = f.handler.Handle(ctx, f.command("bk-1", "2025-06-10", "2025-06-13"))
	assert.NoError(t, err, "cancelled bookings do not block the range")
}

func TestRequestBookingGuards(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	t.Run("invalid date", func(t *testing.T) {
		_, err := f.handler.Handle(ctx, f.command("bk-x", "2025-13-40", "2025-06-13"))
		assert.ErrorIs(t, err, datekey.ErrInvalidDate)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := f.handler.Handle(ctx, f.command("bk-x", "2025-06-13", "2025-06-10"))
		assert.ErrorIs(t, err, daterange.ErrInvalidRange)
	})

	t.Run("check-in in the past", func(t *testing.T) {
		_, err := f.handler.Handle(ctx, f.command("bk-x", "2025-05-01", "2025-05-03"))
		assert.ErrorIs(t, err, domainbooking.ErrCheckInInPast)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		cmd := f.command("bk-x", "2025-06-10", "2025-06-13")
		cmd.Guests = 5
		_, err := f.handler.Handle(ctx, cmd)
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("unknown room", func(t *testing.T) {
		cmd := f.command("bk-x", "2025-06-10", "2025-06-13")
		cmd.RoomID = "room-404"
		_, err := f.handler.Handle(ctx, cmd)
		assert.ErrorIs(t, err, domainhotel.ErrRoomNotFound)
	})
}

func TestRequestBookingIdempotentReplay(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, RequestBookingKey, f.handler)
	bus := middleware.ChainCommands(base,
		middleware.Idempotency(memory.NewIdempotencyStore()),
		middleware.Transaction(f.factory, nil),
	)

	first := f.command("bk-1", "2025-06-10", "2025-06-13")
	first.IdempotencyKeyV = "req-abc"
	result, err := commands.Dispatch[RequestBookingCommand, *RequestBookingResult](ctx, bus, first)
	require.NoError(t, err)

	// Same key, fresh command ID: the stored result is replayed instead of
	// re-running the handler, which would now see a range conflict.
	retry := f.command("bk-2", "2025-06-10", "2025-06-13")
	retry.IdempotencyKeyV = "req-abc"
	replayed, err := commands.Dispatch[RequestBookingCommand, *RequestBookingResult](ctx, bus, retry)
	require.NoError(t, err)
	assert.Equal(t, result.BookingID, replayed.BookingID)

	_, err = f.factory.BookingRepo.ByID(ctx, "bk-2")
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestRequestBookingUnapprovedHotel(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()

	h, err := domainhotel.New(domainhotel.CreateParams{
		ID:    "hotel-2",
		Owner: "owner-1",
		Name:  "Backstreet",
		Address: domainhotel.Address{
			Line1: "3 Alley Rd",
			City:  "Hue",
		},
		Now: testNow,
	})
	require.NoError(t, err)
	room, err := h.AddRoom("room-1", "Single", money.VND(500_000), 1, testNow)
	require.NoError(t, err)
	require.NoError(t, factory.HotelRepo.Save(ctx, h))

	handler := &RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Encoder:    outbox.JSONEventEncoder{},
		Now:        func() time.Time { return testNow },
	}
	_, err = handler.Handle(ctx, RequestBookingCommand{
		CommandID: "bk-1",
		HotelID:   string(h.ID),
		RoomID:    string(room.ID),
		GuestID:   "guest-1",
		CheckIn:   "2025-06-10",
		CheckOut:  "2025-06-12",
		Guests:    1,
	})
	assert.ErrorIs(t, err, ErrHotelNotBookable)
}
