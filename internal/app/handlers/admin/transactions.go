package admin

import (
	"context"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
)

const (
	listTransactionsKey = "admin.list_transactions"
	refundBookingKey    = "admin.refund_booking"
)

// ListTransactionsQuery gives administrators the full booking ledger.
type ListTransactionsQuery struct {
	Status string
}

func (q ListTransactionsQuery) Key() string { return listTransactionsKey }

type ListTransactionsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListTransactionsHandler) Handle(ctx context.Context, q ListTransactionsQuery) (dto.BookingCollection, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	list, err := unit.Bookings().ListAll(ctx)
	if err != nil {
		return dto.BookingCollection{}, err
	}

	hotels := make(map[domainhotel.ID]*domainhotel.Hotel)
	items := make([]dto.BookingSummary, 0, len(list))
	for _, b := range list {
		if q.Status != "" && string(b.Status) != q.Status {
			continue
		}
		hotel, ok := hotels[b.HotelID]
		if !ok {
			hotel, err = unit.Hotels().ByID(ctx, b.HotelID)
			if err != nil {
				return dto.BookingCollection{}, err
			}
			hotels[b.HotelID] = hotel
		}
		items = append(items, dto.MapBookingSummary(b, hotel, true))
	}
	return dto.BookingCollection{Items: items, Total: len(items)}, nil
}

// RefundBookingCommand reverses a paid booking: the booking moves to the
// refunded state and the payout is clawed back from the owner's wallet.
type RefundBookingCommand struct {
	BookingID string
	Reason    string
}

func (c RefundBookingCommand) Key() string { return refundBookingKey }

type RefundBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *RefundBookingHandler) Handle(ctx context.Context, cmd RefundBookingCommand) (struct{}, error) {
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
	now := nowOf(h.Now)
	amount, err := booked.Refund(cmd.Reason, now)
	if err != nil {
		return zero, err
	}

	hotel, err := unit.Hotels().ByID(ctx, booked.HotelID)
	if err != nil {
		return zero, err
	}
	wallet, err := unit.Wallets().ByOwner(ctx, hotel.Owner)
	if err != nil {
		return zero, err
	}
	if err := wallet.Debit(amount, now); err != nil {
		return zero, err
	}

	if err := unit.Bookings().Save(ctx, booked); err != nil {
		return zero, err
	}
	if err := unit.Wallets().Save(ctx, wallet); err != nil {
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

var _ queries.Handler[ListTransactionsQuery, dto.BookingCollection] = (*ListTransactionsHandler)(nil)
var _ commands.Handler[RefundBookingCommand, struct{}] = (*RefundBookingHandler)(nil)
