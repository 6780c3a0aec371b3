package memory

import (
	"context"
	"errors"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	HotelRepo   domainhotel.Repository
	BookingRepo domainbooking.Repository
	UserRepo    domainuser.Repository
	WalletRepo  domainwallet.Repository
}

// NewFactory builds a factory over fresh empty repositories.
func NewFactory() Factory {
	return Factory{
		HotelRepo:   NewHotelRepository(),
		BookingRepo: NewBookingRepository(),
		UserRepo:    NewUserRepository(),
		WalletRepo:  NewWalletRepository(),
	}
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.HotelRepo == nil || f.BookingRepo == nil || f.UserRepo == nil || f.WalletRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		hotels:   f.HotelRepo,
		bookings: f.BookingRepo,
		users:    f.UserRepo,
		wallets:  f.WalletRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	hotels   domainhotel.Repository
	bookings domainbooking.Repository
	users    domainuser.Repository
	wallets  domainwallet.Repository
}

func (u *Unit) Hotels() domainhotel.Repository     { return u.hotels }
func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }
func (u *Unit) Users() domainuser.Repository       { return u.users }
func (u *Unit) Wallets() domainwallet.Repository   { return u.wallets }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.Factory = Factory{}
