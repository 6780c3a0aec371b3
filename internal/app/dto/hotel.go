package dto

import (
	"time"

	domainhotel "staybook/internal/domain/hotel"
)

type RoomDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	NightlyRate MoneyDTO `json:"nightly_rate"`
	Capacity    int      `json:"capacity"`
	Photos      []string `json:"photos,omitempty"`
}

type HotelDetail struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AddressLine string    `json:"address_line"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Lat         float64   `json:"lat,omitempty"`
	Lon         float64   `json:"lon,omitempty"`
	Amenities   []string  `json:"amenities,omitempty"`
	Photos      []string  `json:"photos,omitempty"`
	Rooms       []RoomDTO `json:"rooms"`
	Rating      float64   `json:"rating,omitempty"`
	Approval    string    `json:"approval,omitempty"` // owner/admin views only
	RejectNote  string    `json:"reject_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type HotelCard struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	City     string   `json:"city"`
	Country  string   `json:"country"`
	Photo    string   `json:"photo,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
	MinRate  MoneyDTO `json:"min_rate"`
	RoomsNum int      `json:"rooms"`
}

type HotelCatalog struct {
	Items  []HotelCard `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func MapRoom(r domainhotel.Room) RoomDTO {
	return RoomDTO{
		ID:          string(r.ID),
		Name:        r.Name,
		NightlyRate: MoneyDTO{Amount: r.NightlyRate.Amount, Currency: r.NightlyRate.Currency},
		Capacity:    r.Capacity,
		Photos:      r.Photos,
	}
}

// MapHotelDetail renders the full hotel. Approval state is included only
// for the owner and admin views.
func MapHotelDetail(h *domainhotel.Hotel, includeApproval bool) HotelDetail {
	rooms := make([]RoomDTO, 0, len(h.Rooms))
	for _, r := range h.Rooms {
		rooms = append(rooms, MapRoom(r))
	}
	out := HotelDetail{
		ID:          string(h.ID),
		Name:        h.Name,
		Description: h.Description,
		AddressLine: h.Address.Line1,
		City:        h.Address.City,
		Country:     h.Address.Country,
		Lat:         h.Address.Lat,
		Lon:         h.Address.Lon,
		Amenities:   h.Amenities,
		Photos:      h.Photos,
		Rooms:       rooms,
		Rating:      h.Rating,
		CreatedAt:   h.CreatedAt,
	}
	if includeApproval {
		out.Approval = string(h.Approval)
		out.RejectNote = h.RejectNote
	}
	return out
}

func MapHotelCard(h *domainhotel.Hotel) HotelCard {
	card := HotelCard{
		ID:       string(h.ID),
		Name:     h.Name,
		City:     h.Address.City,
		Country:  h.Address.Country,
		Rating:   h.Rating,
		RoomsNum: len(h.Rooms),
	}
	if len(h.Photos) > 0 {
		card.Photo = h.Photos[0]
	}
	for _, r := range h.Rooms {
		if card.MinRate.Amount == 0 || r.NightlyRate.Amount < card.MinRate.Amount {
			card.MinRate = MoneyDTO{Amount: r.NightlyRate.Amount, Currency: r.NightlyRate.Currency}
		}
	}
	return card
}
