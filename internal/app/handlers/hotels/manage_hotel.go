package hotels

import (
	"context"
	"fmt"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
)

const (
	submitHotelKey = "hotels.submit"
	attachPhotoKey = "hotels.attach_photo"
	ownerHotelsKey = "hotels.list_by_owner"
)

// SubmitHotelCommand registers a new hotel under the calling owner. The
// hotel starts in the pending approval state and stays off the public
// catalog until an administrator approves it. Geocoding is best effort.
type SubmitHotelCommand struct {
	HotelID     string
	OwnerID     string
	Name        string
	Description string
	Line1       string
	City        string
	Country     string
	Amenities   []string
}

func (c SubmitHotelCommand) Key() string { return submitHotelKey }

type SubmitHotelHandler struct {
	UoWFactory uow.Factory
	Geocoder   policies.GeocoderPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *SubmitHotelHandler) Handle(ctx context.Context, cmd SubmitHotelCommand) (dto.HotelDetail, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.HotelDetail{}, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := h.now()
	hotel, err := domainhotel.New(domainhotel.CreateParams{
		ID:          domainhotel.ID(cmd.HotelID),
		Owner:       domainuser.ID(cmd.OwnerID),
		Name:        cmd.Name,
		Description: cmd.Description,
		Address: domainhotel.Address{
			Line1:   cmd.Line1,
			City:    cmd.City,
			Country: cmd.Country,
		},
		Amenities: cmd.Amenities,
		Now:       now,
	})
	if err != nil {
		return dto.HotelDetail{}, err
	}

	if h.Geocoder != nil {
		address := fmt.Sprintf("%s, %s, %s", cmd.Line1, cmd.City, cmd.Country)
		if coords, err := h.Geocoder.Geocode(ctx, address); err == nil {
			hotel.SetCoordinates(coords.Lat, coords.Lon, now)
		}
	}

	if err := unit.Hotels().Save(ctx, hotel); err != nil {
		return dto.HotelDetail{}, err
	}
	if err := outbox.DrainRecorder(ctx, h.Outbox, h.Encoder, hotel); err != nil {
		return dto.HotelDetail{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.HotelDetail{}, err
		}
		committed = true
	}
	return dto.MapHotelDetail(hotel, true), nil
}

func (h *SubmitHotelHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// AttachPhotoCommand links an already uploaded object URL to the hotel.
type AttachPhotoCommand struct {
	HotelID  string
	OwnerID  string
	PhotoURL string
}

func (c AttachPhotoCommand) Key() string { return attachPhotoKey }

type AttachPhotoHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *AttachPhotoHandler) Handle(ctx context.Context, cmd AttachPhotoCommand) (struct{}, error) {
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

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(cmd.HotelID))
	if err != nil {
		return zero, err
	}
	if err := hotel.OwnedBy(domainuser.ID(cmd.OwnerID)); err != nil {
		return zero, err
	}
	hotel.AttachPhoto(cmd.PhotoURL, h.nowFn())
	if err := unit.Hotels().Save(ctx, hotel); err != nil {
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

func (h *AttachPhotoHandler) nowFn() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// OwnerHotelsQuery lists every hotel the owner has registered, including the
// ones still waiting for approval.
type OwnerHotelsQuery struct {
	OwnerID string
}

func (q OwnerHotelsQuery) Key() string { return ownerHotelsKey }

type OwnerHotelsHandler struct {
	UoWFactory uow.Factory
}

func (h *OwnerHotelsHandler) Handle(ctx context.Context, q OwnerHotelsQuery) ([]dto.HotelDetail, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	list, err := unit.Hotels().ListByOwner(ctx, domainuser.ID(q.OwnerID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.HotelDetail, 0, len(list))
	for _, hotel := range list {
		out = append(out, dto.MapHotelDetail(hotel, true))
	}
	return out, nil
}

var _ commands.Handler[SubmitHotelCommand, dto.HotelDetail] = (*SubmitHotelHandler)(nil)
var _ commands.Handler[AttachPhotoCommand, struct{}] = (*AttachPhotoHandler)(nil)
var _ queries.Handler[OwnerHotelsQuery, []dto.HotelDetail] = (*OwnerHotelsHandler)(nil)
