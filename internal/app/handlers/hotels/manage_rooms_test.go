package hotels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainhotel "staybook/internal/domain/hotel"
	"staybook/internal/domain/shared/money"
	"staybook/internal/infra/storage/memory"
)

var roomsNow = time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

func seedHotel(t *testing.T, factory memory.Factory) *domainhotel.Hotel {
	t.Helper()
	h, err := domainhotel.New(domainhotel.CreateParams{
		ID:    "hotel-1",
		Owner: "owner-1",
		Name:  "Harborview",
		Address: domainhotel.Address{
			Line1: "5 Pier Rd",
			City:  "Hai Phong",
		},
		Now: roomsNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.HotelRepo.Save(context.Background(), h))
	return h
}

func TestAddRoomCurrency(t *testing.T) {
	factory := memory.NewFactory()
	seedHotel(t, factory)
	handler := &AddRoomHandler{UoWFactory: factory, Now: func() time.Time { return roomsNow }}
	ctx := context.Background()

	base := AddRoomCommand{
		HotelID:     "hotel-1",
		OwnerID:     "owner-1",
		Name:        "Standard",
		NightlyRate: 900_000,
		Capacity:    2,
	}

	t.Run("empty currency defaults to VND", func(t *testing.T) {
		cmd := base
		cmd.RoomID = "room-1"
		room, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, money.DefaultCurrency, room.NightlyRate.Currency)
	})

	t.Run("lowercase vnd is normalized", func(t *testing.T) {
		cmd := base
		cmd.RoomID = "room-2"
		cmd.Currency = "vnd"
		room, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, money.DefaultCurrency, room.NightlyRate.Currency)
	})

	t.Run("foreign currency is rejected", func(t *testing.T) {
		cmd := base
		cmd.RoomID = "room-3"
		cmd.Currency = "USD"
		_, err := handler.Handle(ctx, cmd)
		assert.ErrorIs(t, err, ErrUnsupportedCurrency)
	})
}

func TestUpdateRoomRejectsForeignCurrency(t *testing.T) {
	factory := memory.NewFactory()
	h := seedHotel(t, factory)
	ctx := context.Background()
	_, err := h.AddRoom("room-1", "Standard", money.VND(900_000), 2, roomsNow)
	require.NoError(t, err)
	require.NoError(t, factory.HotelRepo.Save(ctx, h))

	handler := &UpdateRoomHandler{UoWFactory: factory, Now: func() time.Time { return roomsNow }}
	_, err = handler.Handle(ctx, UpdateRoomCommand{
		HotelID:     "hotel-1",
		OwnerID:     "owner-1",
		RoomID:      "room-1",
		Name:        "Standard",
		NightlyRate: 40,
		Currency:    "USD",
		Capacity:    2,
	})
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}
