package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "staybook/internal/domain/hotel"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
)

type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{col: db.Collection("agg_hotel")}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainhotel.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	doc := newHotelDocument(h)
	filter := bson.M{"_id": doc.ID, "version": h.Version}
	doc.Version = h.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	h.Version = doc.Version
	return nil
}

func (r *HotelRepository) ListByOwner(ctx context.Context, owner domainuser.ID) ([]*domainhotel.Hotel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"owner_id": string(owner)}, opts)
}

func (r *HotelRepository) ListPendingApproval(ctx context.Context) ([]*domainhotel.Hotel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"approval": string(domainhotel.ApprovalPending)}, opts)
}

// Search pushes catalog filters into Mongo. Amenity and price filters are
// applied server-side; min-rate sorting relies on the denormalized min_rate
// field refreshed on every save.
func (r *HotelRepository) Search(ctx context.Context, params domainhotel.SearchParams) (domainhotel.SearchResult, error) {
	opts := params.Normalized()

	filter := bson.M{}
	if opts.OnlyApproved {
		filter["approval"] = string(domainhotel.ApprovalApproved)
	}
	if opts.City != "" {
		filter["address.city_key"] = opts.City
	}
	if opts.Country != "" {
		filter["address.country_key"] = opts.Country
	}
	if len(opts.Amenities) > 0 {
		filter["amenity_keys"] = bson.M{"$all": opts.Amenities}
	}
	if opts.MinCapacity > 0 {
		filter["max_capacity"] = bson.M{"$gte": opts.MinCapacity}
	}
	if opts.PriceMin > 0 || opts.PriceMax > 0 {
		rate := bson.M{}
		if opts.PriceMin > 0 {
			rate["$gte"] = opts.PriceMin
		}
		if opts.PriceMax > 0 {
			rate["$lte"] = opts.PriceMax
		}
		filter["min_rate"] = rate
	}
	if opts.Query != "" {
		filter["$text"] = bson.M{"$search": opts.Query}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainhotel.SearchResult{}, err
	}

	findOpts := options.Find().
		SetSort(sortSpec(opts.Sort)).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	items, err := r.find(ctx, filter, findOpts)
	if err != nil {
		return domainhotel.SearchResult{}, err
	}
	return domainhotel.SearchResult{Items: items, Total: int(total)}, nil
}

func sortSpec(sort domainhotel.CatalogSort) bson.D {
	switch sort {
	case domainhotel.SortByPriceAsc:
		return bson.D{{Key: "min_rate", Value: 1}}
	case domainhotel.SortByPriceDesc:
		return bson.D{{Key: "min_rate", Value: -1}}
	case domainhotel.SortByRating:
		return bson.D{{Key: "rating", Value: -1}, {Key: "min_rate", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func (r *HotelRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainhotel.Hotel, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainhotel.Hotel
	for cursor.Next(ctx) {
		var doc hotelDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func lowerKey(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

type addressDocument struct {
	Line1      string  `bson:"line1"`
	City       string  `bson:"city"`
	CityKey    string  `bson:"city_key"`
	Country    string  `bson:"country"`
	CountryKey string  `bson:"country_key"`
	Lat        float64 `bson:"lat,omitempty"`
	Lon        float64 `bson:"lon,omitempty"`
}

type roomDocument struct {
	ID       string   `bson:"id"`
	Name     string   `bson:"name"`
	Amount   int64    `bson:"amount"`
	Currency string   `bson:"currency"`
	Capacity int      `bson:"capacity"`
	Photos   []string `bson:"photos,omitempty"`
}

type hotelDocument struct {
	ID          string          `bson:"_id"`
	OwnerID     string          `bson:"owner_id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description,omitempty"`
	Address     addressDocument `bson:"address"`
	Amenities   []string        `bson:"amenities,omitempty"`
	AmenityKeys []string        `bson:"amenity_keys,omitempty"`
	Photos      []string        `bson:"photos,omitempty"`
	Rooms       []roomDocument  `bson:"rooms,omitempty"`
	Approval    string          `bson:"approval"`
	RejectNote  string          `bson:"reject_note,omitempty"`
	Rating      float64         `bson:"rating,omitempty"`
	MinRate     int64           `bson:"min_rate,omitempty"`
	MaxCapacity int             `bson:"max_capacity,omitempty"`
	CreatedAt   int64           `bson:"created_at"`
	UpdatedAt   int64           `bson:"updated_at"`
	Version     int64           `bson:"version"`
}

func newHotelDocument(h *domainhotel.Hotel) hotelDocument {
	doc := hotelDocument{
		ID:          string(h.ID),
		OwnerID:     string(h.Owner),
		Name:        h.Name,
		Description: h.Description,
		Address: addressDocument{
			Line1:      h.Address.Line1,
			City:       h.Address.City,
			CityKey:    lowerKey(h.Address.City),
			Country:    h.Address.Country,
			CountryKey: lowerKey(h.Address.Country),
			Lat:        h.Address.Lat,
			Lon:        h.Address.Lon,
		},
		Amenities:  h.Amenities,
		Photos:     h.Photos,
		Approval:   string(h.Approval),
		RejectNote: h.RejectNote,
		Rating:     h.Rating,
		CreatedAt:  h.CreatedAt.UnixMilli(),
		UpdatedAt:  h.UpdatedAt.UnixMilli(),
		Version:    h.Version,
	}
	for _, amenity := range h.Amenities {
		doc.AmenityKeys = append(doc.AmenityKeys, lowerKey(amenity))
	}
	for _, room := range h.Rooms {
		doc.Rooms = append(doc.Rooms, roomDocument{
			ID:       string(room.ID),
			Name:     room.Name,
			Amount:   room.NightlyRate.Amount,
			Currency: room.NightlyRate.Currency,
			Capacity: room.Capacity,
			Photos:   room.Photos,
		})
		if doc.MinRate == 0 || room.NightlyRate.Amount < doc.MinRate {
			doc.MinRate = room.NightlyRate.Amount
		}
		if room.Capacity > doc.MaxCapacity {
			doc.MaxCapacity = room.Capacity
		}
	}
	return doc
}

func (d hotelDocument) toAggregate() *domainhotel.Hotel {
	hotel := &domainhotel.Hotel{
		ID:          domainhotel.ID(d.ID),
		Owner:       domainuser.ID(d.OwnerID),
		Name:        d.Name,
		Description: d.Description,
		Address: domainhotel.Address{
			Line1:   d.Address.Line1,
			City:    d.Address.City,
			Country: d.Address.Country,
			Lat:     d.Address.Lat,
			Lon:     d.Address.Lon,
		},
		Amenities:  d.Amenities,
		Photos:     d.Photos,
		Approval:   domainhotel.ApprovalState(d.Approval),
		RejectNote: d.RejectNote,
		Rating:     d.Rating,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
		Version:    d.Version,
	}
	for _, room := range d.Rooms {
		hotel.Rooms = append(hotel.Rooms, domainhotel.Room{
			ID:          domainhotel.RoomID(room.ID),
			Name:        room.Name,
			NightlyRate: money.Money{Amount: room.Amount, Currency: room.Currency},
			Capacity:    room.Capacity,
			Photos:      room.Photos,
		})
	}
	return hotel
}
