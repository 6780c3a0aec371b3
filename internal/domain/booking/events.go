package booking

import (
	"time"

	"staybook/internal/domain/hotel"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

type Requested struct {
	BookingID ID              `json:"booking_id"`
	HotelID   hotel.ID        `json:"hotel_id"`
	RoomID    hotel.RoomID    `json:"room_id"`
	GuestID   user.ID         `json:"guest_id"`
	Range     daterange.Range `json:"range"`
	Total     money.Money     `json:"total"`
	At        time.Time       `json:"at"`
}

func (e Requested) EventName() string     { return "booking.requested" }
func (e Requested) AggregateID() string   { return string(e.BookingID) }
func (e Requested) OccurredAt() time.Time { return e.At }

type Paid struct {
	BookingID  ID          `json:"booking_id"`
	HotelID    hotel.ID    `json:"hotel_id"`
	PaymentRef string      `json:"payment_ref"`
	Total      money.Money `json:"total"`
	At         time.Time   `json:"at"`
}

func (e Paid) EventName() string     { return "booking.paid" }
func (e Paid) AggregateID() string   { return string(e.BookingID) }
func (e Paid) OccurredAt() time.Time { return e.At }

type Failed struct {
	BookingID ID        `json:"booking_id"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

func (e Failed) EventName() string     { return "booking.failed" }
func (e Failed) AggregateID() string   { return string(e.BookingID) }
func (e Failed) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	BookingID ID        `json:"booking_id"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.BookingID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }

type Refunded struct {
	BookingID ID          `json:"booking_id"`
	Amount    money.Money `json:"amount"`
	Reason    string      `json:"reason"`
	At        time.Time   `json:"at"`
}

func (e Refunded) EventName() string     { return "booking.refunded" }
func (e Refunded) AggregateID() string   { return string(e.BookingID) }
func (e Refunded) OccurredAt() time.Time { return e.At }
