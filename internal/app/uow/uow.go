package uow

import (
	"context"

	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Hotels() domainhotel.Repository
	Bookings() domainbooking.Repository
	Users() domainuser.Repository
	Wallets() domainwallet.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
