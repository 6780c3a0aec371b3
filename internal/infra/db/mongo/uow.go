package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	HotelRepo   domainhotel.Repository
	BookingRepo domainbooking.Repository
	UserRepo    domainuser.Repository
	WalletRepo  domainwallet.Repository
}

// NewFactory builds a factory with repositories bound to the database.
func NewFactory(client *Client) Factory {
	return Factory{
		DB:          client.DB,
		HotelRepo:   NewHotelRepository(client.DB),
		BookingRepo: NewBookingRepository(client.DB),
		UserRepo:    NewUserRepository(client.DB),
		WalletRepo:  NewWalletRepository(client.DB),
	}
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:       f.DB,
		session:  session,
		hotels:   f.HotelRepo,
		bookings: f.BookingRepo,
		users:    f.UserRepo,
		wallets:  f.WalletRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	hotels   domainhotel.Repository
	bookings domainbooking.Repository
	users    domainuser.Repository
	wallets  domainwallet.Repository
}

func (u *Unit) Hotels() domainhotel.Repository     { return u.hotels }
func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }
func (u *Unit) Users() domainuser.Repository       { return u.users }
func (u *Unit) Wallets() domainwallet.Repository   { return u.wallets }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for
// downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.Factory = Factory{}
