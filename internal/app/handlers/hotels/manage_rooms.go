package hotels

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/uow"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/domain/shared/money"
)

const (
	addRoomKey    = "hotels.add_room"
	updateRoomKey = "hotels.update_room"
	removeRoomKey = "hotels.remove_room"
)

// ErrUnsupportedCurrency rejects rates the payment gateway cannot settle.
var ErrUnsupportedCurrency = errors.New("hotels: nightly rates must use the platform currency")

// nightlyRate parses a rate and pins it to the settlement currency.
// The gateway signs amounts as whole dong, so any other currency would
// either mischarge the guest or fail the drift check on settlement.
func nightlyRate(amount int64, currency string) (money.Money, error) {
	if currency == "" {
		return money.VND(amount), nil
	}
	rate, err := money.New(amount, currency)
	if err != nil {
		return money.Money{}, err
	}
	if rate.Currency != money.DefaultCurrency {
		return money.Money{}, ErrUnsupportedCurrency
	}
	return rate, nil
}

type AddRoomCommand struct {
	HotelID     string
	OwnerID     string
	RoomID      string
	Name        string
	NightlyRate int64
	Currency    string
	Capacity    int
}

func (c AddRoomCommand) Key() string { return addRoomKey }

type AddRoomHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *AddRoomHandler) Handle(ctx context.Context, cmd AddRoomCommand) (dto.RoomDTO, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.RoomDTO{}, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(cmd.HotelID))
	if err != nil {
		return dto.RoomDTO{}, err
	}
	if err := hotel.OwnedBy(domainuser.ID(cmd.OwnerID)); err != nil {
		return dto.RoomDTO{}, err
	}
	rate, err := nightlyRate(cmd.NightlyRate, cmd.Currency)
	if err != nil {
		return dto.RoomDTO{}, err
	}
	room, err := hotel.AddRoom(domainhotel.RoomID(cmd.RoomID), cmd.Name, rate, cmd.Capacity, nowOf(h.Now))
	if err != nil {
		return dto.RoomDTO{}, err
	}
	if err := unit.Hotels().Save(ctx, hotel); err != nil {
		return dto.RoomDTO{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.RoomDTO{}, err
		}
		committed = true
	}
	return dto.MapRoom(room), nil
}

type UpdateRoomCommand struct {
	HotelID     string
	OwnerID     string
	RoomID      string
	Name        string
	NightlyRate int64
	Currency    string
	Capacity    int
}

func (c UpdateRoomCommand) Key() string { return updateRoomKey }

type UpdateRoomHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *UpdateRoomHandler) Handle(ctx context.Context, cmd UpdateRoomCommand) (dto.RoomDTO, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.RoomDTO{}, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(cmd.HotelID))
	if err != nil {
		return dto.RoomDTO{}, err
	}
	if err := hotel.OwnedBy(domainuser.ID(cmd.OwnerID)); err != nil {
		return dto.RoomDTO{}, err
	}
	current, err := hotel.Room(domainhotel.RoomID(cmd.RoomID))
	if err != nil {
		return dto.RoomDTO{}, err
	}
	rate, err := nightlyRate(cmd.NightlyRate, cmd.Currency)
	if err != nil {
		return dto.RoomDTO{}, err
	}
	current.Name = cmd.Name
	current.NightlyRate = rate
	current.Capacity = cmd.Capacity
	if err := hotel.UpdateRoom(current, nowOf(h.Now)); err != nil {
		return dto.RoomDTO{}, err
	}
	if err := unit.Hotels().Save(ctx, hotel); err != nil {
		return dto.RoomDTO{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.RoomDTO{}, err
		}
		committed = true
	}
	return dto.MapRoom(current), nil
}

type RemoveRoomCommand struct {
	HotelID string
	OwnerID string
	RoomID  string
}

func (c RemoveRoomCommand) Key() string { return removeRoomKey }

type RemoveRoomHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *RemoveRoomHandler) Handle(ctx context.Context, cmd RemoveRoomCommand) (struct{}, error) {
	var zero struct{}
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return zero, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(cmd.HotelID))
	if err != nil {
		return zero, err
	}
	if err := hotel.OwnedBy(domainuser.ID(cmd.OwnerID)); err != nil {
		return zero, err
	}
	if err := hotel.RemoveRoom(domainhotel.RoomID(cmd.RoomID), nowOf(h.Now)); err != nil {
		return zero, err
	}
	if err := unit.Hotels().Save(ctx, hotel); err != nil {
		return zero, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return zero, err
		}
		committed = true
	}
	return zero, nil
}

func nowOf(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

var _ commands.Handler[AddRoomCommand, dto.RoomDTO] = (*AddRoomHandler)(nil)
var _ commands.Handler[UpdateRoomCommand, dto.RoomDTO] = (*UpdateRoomHandler)(nil)
var _ commands.Handler[RemoveRoomCommand, struct{}] = (*RemoveRoomHandler)(nil)
