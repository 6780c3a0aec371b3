package booking

import (
	"context"
	"errors"
	"net/url"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainwallet "staybook/internal/domain/wallet"
)

const (
	PaymentURLKey     = "booking.payment_url"
	SettlePaymentKey  = "booking.settle_payment"
	reasonAmountDrift = "gateway amount does not match booking total"
)

var (
	ErrNotBookingOwner = errors.New("booking: booking belongs to another guest")
	ErrNotPayable      = errors.New("booking: booking is not awaiting payment")
)

// PaymentURLQuery asks the gateway for a redirect URL the guest pays through.
type PaymentURLQuery struct {
	BookingID string
	GuestID   string
	ClientIP  string
}

func (q PaymentURLQuery) Key() string { return PaymentURLKey }

type PaymentURLHandler struct {
	UoWFactory uow.Factory
	Payments   policies.PaymentsPort
}

func (h *PaymentURLHandler) Handle(ctx context.Context, q PaymentURLQuery) (string, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return "", err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	booked, err := unit.Bookings().ByID(ctx, domainbooking.ID(q.BookingID))
	if err != nil {
		return "", err
	}
	if string(booked.GuestID) != q.GuestID {
		return "", ErrNotBookingOwner
	}
	if booked.Status != domainbooking.StatusPending {
		return "", ErrNotPayable
	}
	return h.Payments.PayURL(ctx, q.BookingID, booked.Total, q.ClientIP)
}

// SettlePaymentCommand applies the gateway's return verdict: a confirmed
// payment marks the booking paid and credits the owner's wallet, anything
// else marks it failed.
type SettlePaymentCommand struct {
	ReturnParams url.Values
}

func (c SettlePaymentCommand) Key() string { return SettlePaymentKey }

type SettlePaymentResult struct {
	BookingID string
	Paid      bool
	Reason    string
}

type SettlePaymentHandler struct {
	UoWFactory uow.Factory
	Payments   policies.PaymentsPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *SettlePaymentHandler) Handle(ctx context.Context, cmd SettlePaymentCommand) (*SettlePaymentResult, error) {
	verdict, err := h.Payments.VerifyReturn(ctx, cmd.ReturnParams)
	if err != nil {
		return nil, err
	}

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

	booked, err := unit.Bookings().ByID(ctx, domainbooking.ID(verdict.BookingID))
	if err != nil {
		return nil, err
	}
	now := h.now()

	result := &SettlePaymentResult{BookingID: verdict.BookingID}
	switch {
	case !verdict.Succeeded:
		if err := booked.MarkFailed(verdict.FailReason, now); err != nil {
			return nil, err
		}
		result.Reason = verdict.FailReason
	case verdict.Amount != booked.Total:
		if err := booked.MarkFailed(reasonAmountDrift, now); err != nil {
			return nil, err
		}
		result.Reason = reasonAmountDrift
	default:
		if err := booked.MarkPaid(verdict.Reference, now); err != nil {
			return nil, err
		}
		hotel, err := unit.Hotels().ByID(ctx, booked.HotelID)
		if err != nil {
			return nil, err
		}
		wallet, err := unit.Wallets().ByOwner(ctx, hotel.Owner)
		if err != nil {
			if !errors.Is(err, domainwallet.ErrNotFound) {
				return nil, err
			}
			wallet = domainwallet.New(hotel.Owner)
		}
		if err := wallet.CreditBookingPayout(booked, now); err != nil {
			return nil, err
		}
		if err := unit.Wallets().Save(ctx, wallet); err != nil {
			return nil, err
		}
		result.Paid = true
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
	return result, nil
}

func (h *SettlePaymentHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ queries.Handler[PaymentURLQuery, string] = (*PaymentURLHandler)(nil)
var _ commands.Handler[SettlePaymentCommand, *SettlePaymentResult] = (*SettlePaymentHandler)(nil)
