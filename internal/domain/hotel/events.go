package hotel

import (
	"time"

	"staybook/internal/domain/user"
)

type Submitted struct {
	HotelID ID        `json:"hotel_id"`
	Owner   user.ID   `json:"owner"`
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
}

func (e Submitted) EventName() string     { return "hotel.submitted" }
func (e Submitted) AggregateID() string   { return string(e.HotelID) }
func (e Submitted) OccurredAt() time.Time { return e.At }

type Approved struct {
	HotelID ID        `json:"hotel_id"`
	At      time.Time `json:"at"`
}

func (e Approved) EventName() string     { return "hotel.approved" }
func (e Approved) AggregateID() string   { return string(e.HotelID) }
func (e Approved) OccurredAt() time.Time { return e.At }

type Rejected struct {
	HotelID ID        `json:"hotel_id"`
	Note    string    `json:"note"`
	At      time.Time `json:"at"`
}

func (e Rejected) EventName() string     { return "hotel.rejected" }
func (e Rejected) AggregateID() string   { return string(e.HotelID) }
func (e Rejected) OccurredAt() time.Time { return e.At }
