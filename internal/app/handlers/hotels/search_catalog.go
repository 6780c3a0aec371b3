package hotels

import (
	"context"

	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
)

const (
	searchCatalogKey = "hotels.search"
	getHotelKey      = "hotels.get"
)

// SearchCatalogQuery is the public catalog search. Only approved hotels are
// ever returned here regardless of what the caller asks for.
type SearchCatalogQuery struct {
	Query       string
	City        string
	Country     string
	Amenities   []string
	MinCapacity int
	PriceMin    int64
	PriceMax    int64
	Sort        string
	Limit       int
	Offset      int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

type SearchCatalogHandler struct {
	UoWFactory uow.Factory
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.HotelCatalog, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.HotelCatalog{}, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	params := domainhotel.SearchParams{
		Query:        q.Query,
		City:         q.City,
		Country:      q.Country,
		Amenities:    q.Amenities,
		MinCapacity:  q.MinCapacity,
		PriceMin:     q.PriceMin,
		PriceMax:     q.PriceMax,
		Sort:         domainhotel.CatalogSort(q.Sort),
		Limit:        q.Limit,
		Offset:       q.Offset,
		OnlyApproved: true,
	}.Normalized()

	result, err := unit.Hotels().Search(ctx, params)
	if err != nil {
		return dto.HotelCatalog{}, err
	}

	cards := make([]dto.HotelCard, 0, len(result.Items))
	for _, hotel := range result.Items {
		cards = append(cards, dto.MapHotelCard(hotel))
	}
	return dto.HotelCatalog{Items: cards, Total: result.Total, Limit: params.Limit, Offset: params.Offset}, nil
}

// GetHotelQuery loads a single hotel detail page. Unapproved hotels are only
// visible to their owner; CallerID is empty for anonymous visitors.
type GetHotelQuery struct {
	HotelID  string
	CallerID string
}

func (q GetHotelQuery) Key() string { return getHotelKey }

type GetHotelHandler struct {
	UoWFactory uow.Factory
}

func (h *GetHotelHandler) Handle(ctx context.Context, q GetHotelQuery) (dto.HotelDetail, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.HotelDetail{}, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	hotel, err := unit.Hotels().ByID(ctx, domainhotel.ID(q.HotelID))
	if err != nil {
		return dto.HotelDetail{}, err
	}
	owns := q.CallerID != "" && hotel.OwnedBy(domainuser.ID(q.CallerID)) == nil
	if !hotel.Visible() && !owns {
		return dto.HotelDetail{}, domainhotel.ErrNotFound
	}
	return dto.MapHotelDetail(hotel, owns), nil
}

var _ queries.Handler[SearchCatalogQuery, dto.HotelCatalog] = (*SearchCatalogHandler)(nil)
var _ queries.Handler[GetHotelQuery, dto.HotelDetail] = (*GetHotelHandler)(nil)
