package admin

import (
	"context"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainhotel "staybook/internal/domain/hotel"
)

const (
	approveHotelKey  = "admin.approve_hotel"
	rejectHotelKey   = "admin.reject_hotel"
	pendingHotelsKey = "admin.pending_hotels"
)

type ApproveHotelCommand struct {
	HotelID string
}

func (c ApproveHotelCommand) Key() string { return approveHotelKey }

type ApproveHotelHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *ApproveHotelHandler) Handle(ctx context.Context, cmd ApproveHotelCommand) (struct{}, error) {
	return reviewHotel(ctx, h.UoWFactory, h.Outbox, h.Encoder, cmd.HotelID, func(hotel *domainhotel.Hotel) error {
		return hotel.Approve(nowOf(h.Now))
	})
}

type RejectHotelCommand struct {
	HotelID string
	Note    string
}

func (c RejectHotelCommand) Key() string { return rejectHotelKey }

type RejectHotelHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *RejectHotelHandler) Handle(ctx context.Context, cmd RejectHotelCommand) (struct{}, error) {
	return reviewHotel(ctx, h.UoWFactory, h.Outbox, h.Encoder, cmd.HotelID, func(hotel *domainhotel.Hotel) error {
		return hotel.Reject(cmd.Note, nowOf(h.Now))
	})
}

func reviewHotel(ctx context.Context, factory uow.Factory, box outbox.Outbox, encoder outbox.EventEncoder, hotelID string, review func(*domainhotel.Hotel) error) (struct{}, error) {
	var zero struct{}
	ctx, unit, managed, err := uow.Require(ctx, factory, uow.TxOptions{})
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

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(hotelID))
	if err != nil {
		return zero, err
	}
	if err := review(hotel); err != nil {
		return zero, err
	}
	if err := unit.Hotels().Save(ctx, hotel); err != nil {
		return zero, err
	}
	if err := outbox.DrainRecorder(ctx, box, encoder, hotel); err != nil {
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

// PendingHotelsQuery lists hotels waiting for moderation, oldest first.
type PendingHotelsQuery struct{}

func (q PendingHotelsQuery) Key() string { return pendingHotelsKey }

type PendingHotelsHandler struct {
	UoWFactory uow.Factory
}

func (h *PendingHotelsHandler) Handle(ctx context.Context, q PendingHotelsQuery) ([]dto.HotelDetail, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	list, err := unit.Hotels().ListPendingApproval(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HotelDetail, 0, len(list))
	for _, hotel := range list {
		out = append(out, dto.MapHotelDetail(hotel, true))
	}
	return out, nil
}

func nowOf(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

var _ commands.Handler[ApproveHotelCommand, struct{}] = (*ApproveHotelHandler)(nil)
var _ commands.Handler[RejectHotelCommand, struct{}] = (*RejectHotelHandler)(nil)
var _ queries.Handler[PendingHotelsQuery, []dto.HotelDetail] = (*PendingHotelsHandler)(nil)
