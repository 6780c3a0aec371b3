package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	"staybook/internal/domain/shared/datekey"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
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
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByRoom(ctx context.Context, roomID domainhotel.RoomID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"room_id": string(roomID)})
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID domainuser.ID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"guest_id": string(guestID)})
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"hotel_id": string(hotelID)})
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID         string `bson:"_id"`
	HotelID    string `bson:"hotel_id"`
	RoomID     string `bson:"room_id"`
	GuestID    string `bson:"guest_id"`
	GuestName  string `bson:"guest_name"`
	CheckIn    string `bson:"check_in"`
	CheckOut   string `bson:"check_out"`
	Guests     int    `bson:"guests"`
	Amount     int64  `bson:"amount"`
	Currency   string `bson:"currency"`
	Status     string `bson:"status"`
	PaymentRef string `bson:"payment_ref,omitempty"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
	Version    int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		HotelID:    string(b.HotelID),
		RoomID:     string(b.RoomID),
		GuestID:    string(b.GuestID),
		GuestName:  b.GuestName,
		CheckIn:    string(b.Range.CheckIn),
		CheckOut:   string(b.Range.CheckOut),
		Guests:     b.Guests,
		Amount:     b.Total.Amount,
		Currency:   b.Total.Currency,
		Status:     string(b.Status),
		PaymentRef: b.PaymentRef,
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
		Version:    b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.ID(d.ID),
		HotelID:   domainhotel.ID(d.HotelID),
		RoomID:    domainhotel.RoomID(d.RoomID),
		GuestID:   domainuser.ID(d.GuestID),
		GuestName: d.GuestName,
		Range: daterange.Range{
			CheckIn:  datekey.Key(d.CheckIn),
			CheckOut: datekey.Key(d.CheckOut),
		},
		Guests:     d.Guests,
		Total:      money.Money{Amount: d.Amount, Currency: d.Currency},
		Status:     domainbooking.Status(d.Status),
		PaymentRef: d.PaymentRef,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
		Version:    d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
