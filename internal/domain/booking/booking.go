package booking

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/hotel"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

var (
	ErrInvalidGuests   = errors.New("booking: guests count must be positive")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrNotFound        = errors.New("booking: not found")
	ErrCheckInInPast   = errors.New("booking: check-in date is in the past")
	ErrGuestRequired   = errors.New("booking: guest id required")
	ErrZeroTotal       = errors.New("booking: total must be positive")
	ErrNotRefundable   = errors.New("booking: only paid bookings can be refunded")
)

type ID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

// ActiveStatuses are the statuses that occupy the room for the booking's
// date range. Cancelled, failed and refunded bookings release their nights.
var ActiveStatuses = []Status{StatusPaid, StatusPending}

// Active reports whether the status blocks availability.
func (s Status) Active() bool {
	return s == StatusPaid || s == StatusPending
}

type Booking struct {
	ID         ID
	HotelID    hotel.ID
	RoomID     hotel.RoomID
	GuestID    user.ID
	GuestName  string
	Range      daterange.Range
	Guests     int
	Total      money.Money
	Status     Status
	PaymentRef string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByRoom(ctx context.Context, roomID hotel.RoomID) ([]*Booking, error)
	ListByGuest(ctx context.Context, guestID user.ID) ([]*Booking, error)
	ListByHotel(ctx context.Context, hotelID hotel.ID) ([]*Booking, error)
	ListAll(ctx context.Context) ([]*Booking, error)
}

type CreateParams struct {
	ID        ID
	HotelID   hotel.ID
	RoomID    hotel.RoomID
	GuestID   user.ID
	GuestName string
	Range     daterange.Range
	Guests    int
	Total     money.Money
	CreatedAt time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Total.Amount <= 0 {
		return nil, ErrZeroTotal
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		HotelID:   params.HotelID,
		RoomID:    params.RoomID,
		GuestID:   params.GuestID,
		GuestName: params.GuestName,
		Range:     params.Range,
		Guests:    params.Guests,
		Total:     params.Total,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(Requested{BookingID: b.ID, HotelID: b.HotelID, RoomID: b.RoomID, GuestID: b.GuestID, Range: b.Range, Total: b.Total, At: now})
	return b, nil
}

// ValidateCheckIn rejects ranges whose check-in day lies before today in
// local calendar terms.
func ValidateCheckIn(r daterange.Range, today time.Time) error {
	if r.CheckIn.Before(todayKey(today)) {
		return ErrCheckInInPast
	}
	return nil
}

// MarkPaid records a successful payment gateway confirmation.
func (b *Booking) MarkPaid(paymentRef string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusPaid
	b.PaymentRef = paymentRef
	b.UpdatedAt = now.UTC()
	b.Record(Paid{BookingID: b.ID, HotelID: b.HotelID, PaymentRef: paymentRef, Total: b.Total, At: b.UpdatedAt})
	return nil
}

// MarkFailed records a declined or abandoned payment.
func (b *Booking) MarkFailed(reason string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusFailed
	b.UpdatedAt = now.UTC()
	b.Record(Failed{BookingID: b.ID, Reason: reason, At: b.UpdatedAt})
	return nil
}

// Cancel releases a pending booking without refund bookkeeping.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(Cancelled{BookingID: b.ID, Reason: reason, At: b.UpdatedAt})
	return nil
}

// Refund cancels a paid booking and reports the amount to return.
func (b *Booking) Refund(reason string, now time.Time) (money.Money, error) {
	if b.Status != StatusPaid {
		return money.Money{}, ErrNotRefundable
	}
	b.Status = StatusRefunded
	b.UpdatedAt = now.UTC()
	b.Record(Refunded{BookingID: b.ID, Amount: b.Total, Reason: reason, At: b.UpdatedAt})
	return b.Total, nil
}
