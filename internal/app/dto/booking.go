package dto

import (
	"time"

	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type HotelSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
	Photo   string `json:"photo,omitempty"`
}

type BookingSummary struct {
	ID         string        `json:"id"`
	Hotel      HotelSnapshot `json:"hotel"`
	RoomID     string        `json:"room_id"`
	RoomName   string        `json:"room_name,omitempty"`
	GuestID    string        `json:"guest_id,omitempty"`
	GuestName  string        `json:"guest_name,omitempty"`
	CheckIn    string        `json:"check_in"`
	CheckOut   string        `json:"check_out"`
	Nights     int           `json:"nights"`
	Guests     int           `json:"guests"`
	Status     string        `json:"status"`
	Total      MoneyDTO      `json:"total"`
	PaymentRef string        `json:"payment_ref,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
	Total int              `json:"total"`
}

// MapBookingSummary flattens a booking with its hotel context. The hotel may
// be nil when it was deleted after the stay; the snapshot then carries ids
// only.
func MapBookingSummary(b *domainbooking.Booking, h *domainhotel.Hotel, includeGuest bool) BookingSummary {
	snapshot := HotelSnapshot{ID: string(b.HotelID)}
	roomName := ""
	if h != nil {
		snapshot.Name = h.Name
		snapshot.City = h.Address.City
		snapshot.Country = h.Address.Country
		if len(h.Photos) > 0 {
			snapshot.Photo = h.Photos[0]
		}
		if room, err := h.Room(b.RoomID); err == nil {
			roomName = room.Name
		}
	}
	out := BookingSummary{
		ID:         string(b.ID),
		Hotel:      snapshot,
		RoomID:     string(b.RoomID),
		RoomName:   roomName,
		CheckIn:    b.Range.CheckIn.String(),
		CheckOut:   b.Range.CheckOut.String(),
		Nights:     b.Range.Nights(),
		Guests:     b.Guests,
		Status:     string(b.Status),
		Total:      MoneyDTO{Amount: b.Total.Amount, Currency: b.Total.Currency},
		PaymentRef: b.PaymentRef,
		CreatedAt:  b.CreatedAt,
	}
	if includeGuest {
		out.GuestID = string(b.GuestID)
		out.GuestName = b.GuestName
	}
	return out
}
