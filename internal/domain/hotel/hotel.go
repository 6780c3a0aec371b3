package hotel

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

var (
	ErrNotFound        = errors.New("hotel: not found")
	ErrRoomNotFound    = errors.New("hotel: room not found")
	ErrNameRequired    = errors.New("hotel: name is required")
	ErrAddressRequired = errors.New("hotel: address is required")
	ErrInvalidState    = errors.New("hotel: invalid approval transition")
	ErrRoomName        = errors.New("hotel: room name is required")
	ErrRoomRate        = errors.New("hotel: room rate must be positive")
	ErrRoomCapacity    = errors.New("hotel: room capacity must be at least 1")
	ErrNotOwner        = errors.New("hotel: operation restricted to the owning account")
)

type ID string
type RoomID string

type ApprovalState string

const (
	ApprovalPending  ApprovalState = "PENDING"
	ApprovalApproved ApprovalState = "APPROVED"
	ApprovalRejected ApprovalState = "REJECTED"
)

type Address struct {
	Line1   string
	City    string
	Country string
	Lat     float64
	Lon     float64
}

func (a Address) Valid() bool {
	return strings.TrimSpace(a.Line1) != "" && strings.TrimSpace(a.City) != ""
}

// Geocoded reports whether coordinates were resolved for the address.
func (a Address) Geocoded() bool {
	return a.Lat != 0 || a.Lon != 0
}

type Room struct {
	ID          RoomID
	Name        string
	NightlyRate money.Money
	Capacity    int
	Photos      []string
}

type Hotel struct {
	ID          ID
	Owner       user.ID
	Name        string
	Description string
	Address     Address
	Amenities   []string
	Photos      []string
	Rooms       []Room
	Approval    ApprovalState
	RejectNote  string
	Rating      float64
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Hotel, error)
	Save(ctx context.Context, h *Hotel) error
	ListByOwner(ctx context.Context, owner user.ID) ([]*Hotel, error)
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	ListPendingApproval(ctx context.Context) ([]*Hotel, error)
}

type CreateParams struct {
	ID          ID
	Owner       user.ID
	Name        string
	Description string
	Address     Address
	Amenities   []string
	Now         time.Time
}

func New(params CreateParams) (*Hotel, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !params.Address.Valid() {
		return nil, ErrAddressRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	h := &Hotel{
		ID:          params.ID,
		Owner:       params.Owner,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		Address:     params.Address,
		Amenities:   params.Amenities,
		Approval:    ApprovalPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	h.Record(Submitted{HotelID: h.ID, Owner: h.Owner, Name: h.Name, At: now})
	return h, nil
}

// Approve transitions a pending or previously rejected hotel to approved.
func (h *Hotel) Approve(now time.Time) error {
	if h.Approval == ApprovalApproved {
		return ErrInvalidState
	}
	h.Approval = ApprovalApproved
	h.RejectNote = ""
	h.touch(now)
	h.Record(Approved{HotelID: h.ID, At: h.UpdatedAt})
	return nil
}

// Reject declines a pending hotel with an operator note.
func (h *Hotel) Reject(note string, now time.Time) error {
	if h.Approval != ApprovalPending {
		return ErrInvalidState
	}
	h.Approval = ApprovalRejected
	h.RejectNote = strings.TrimSpace(note)
	h.touch(now)
	h.Record(Rejected{HotelID: h.ID, Note: h.RejectNote, At: h.UpdatedAt})
	return nil
}

// Visible reports whether the hotel may appear in the public catalog.
func (h *Hotel) Visible() bool {
	return h.Approval == ApprovalApproved
}

// AddRoom appends a validated room and returns it.
func (h *Hotel) AddRoom(id RoomID, name string, rate money.Money, capacity int, now time.Time) (Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Room{}, ErrRoomName
	}
	if rate.Amount <= 0 {
		return Room{}, ErrRoomRate
	}
	if capacity < 1 {
		return Room{}, ErrRoomCapacity
	}
	room := Room{ID: id, Name: name, NightlyRate: rate, Capacity: capacity}
	h.Rooms = append(h.Rooms, room)
	h.touch(now)
	return room, nil
}

// Room finds a room by id.
func (h *Hotel) Room(id RoomID) (Room, error) {
	for _, r := range h.Rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return Room{}, ErrRoomNotFound
}

// UpdateRoom replaces the stored room with the same id.
func (h *Hotel) UpdateRoom(room Room, now time.Time) error {
	for i, r := range h.Rooms {
		if r.ID == room.ID {
			h.Rooms[i] = room
			h.touch(now)
			return nil
		}
	}
	return ErrRoomNotFound
}

// RemoveRoom deletes a room by id.
func (h *Hotel) RemoveRoom(id RoomID, now time.Time) error {
	for i, r := range h.Rooms {
		if r.ID == id {
			h.Rooms = append(h.Rooms[:i], h.Rooms[i+1:]...)
			h.touch(now)
			return nil
		}
	}
	return ErrRoomNotFound
}

// AttachPhoto appends an uploaded photo URL to the hotel gallery.
func (h *Hotel) AttachPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	h.Photos = append(h.Photos, url)
	h.touch(now)
}

// SetCoordinates records a geocoding result for the address.
func (h *Hotel) SetCoordinates(lat, lon float64, now time.Time) {
	h.Address.Lat = lat
	h.Address.Lon = lon
	h.touch(now)
}

// OwnedBy guards owner-scoped mutations.
func (h *Hotel) OwnedBy(owner user.ID) error {
	if h.Owner != owner {
		return ErrNotOwner
	}
	return nil
}

func (h *Hotel) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	h.UpdatedAt = now.UTC()
}
