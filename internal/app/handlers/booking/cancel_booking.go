package booking

import (
	"context"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
)

const CancelBookingKey = "booking.cancel"

// CancelBookingCommand lets a guest abandon a booking that has not been paid
// yet. Paid bookings go through the admin refund flow instead.
type CancelBookingCommand struct {
	BookingID string
	GuestID   string
	Reason    string
}

func (c CancelBookingCommand) Key() string { return CancelBookingKey }

type CancelBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (struct{}, error) {
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

	booked, err := unit.Bookings().ByID(ctx, domainbooking.ID(cmd.BookingID))
	if err != nil {
		return zero, err
	}
	if string(booked.GuestID) != cmd.GuestID {
		return zero, ErrNotBookingOwner
	}
	if err := booked.Cancel(cmd.Reason, h.now()); err != nil {
		return zero, err
	}
	if err := unit.Bookings().Save(ctx, booked); err != nil {
		return zero, err
	}
	if err := outbox.DrainRecorder(ctx, h.Outbox, h.Encoder, booked); err != nil {
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

func (h *CancelBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[CancelBookingCommand, struct{}] = (*CancelBookingHandler)(nil)
