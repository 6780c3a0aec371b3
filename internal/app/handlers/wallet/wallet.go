package wallet

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

const (
	getWalletKey         = "wallet.get"
	requestWithdrawalKey = "wallet.request_withdrawal"
)

// GetWalletQuery loads the caller's wallet. Owners without any paid booking
// yet see an empty wallet rather than an error.
type GetWalletQuery struct {
	OwnerID string
}

func (q GetWalletQuery) Key() string { return getWalletKey }

type GetWalletHandler struct {
	UoWFactory uow.Factory
}

func (h *GetWalletHandler) Handle(ctx context.Context, q GetWalletQuery) (dto.WalletView, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.WalletView{}, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	w, err := unit.Wallets().ByOwner(ctx, domainuser.ID(q.OwnerID))
	if err != nil {
		if errors.Is(err, domainwallet.ErrNotFound) {
			return dto.MapWallet(domainwallet.New(domainuser.ID(q.OwnerID))), nil
		}
		return dto.WalletView{}, err
	}
	return dto.MapWallet(w), nil
}

type RequestWithdrawalCommand struct {
	OwnerID      string
	WithdrawalID string
	Amount       int64
	Currency     string
	BankAccount  string
	BankName     string
}

func (c RequestWithdrawalCommand) Key() string { return requestWithdrawalKey }

type RequestWithdrawalHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *RequestWithdrawalHandler) Handle(ctx context.Context, cmd RequestWithdrawalCommand) (dto.WithdrawalSummary, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.WithdrawalSummary{}, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	wallet, err := unit.Wallets().ByOwner(ctx, domainuser.ID(cmd.OwnerID))
	if err != nil {
		return dto.WithdrawalSummary{}, err
	}
	amount, err := money.New(cmd.Amount, cmd.Currency)
	if err != nil {
		return dto.WithdrawalSummary{}, err
	}
	wd, err := wallet.RequestWithdrawal(cmd.WithdrawalID, amount, cmd.BankAccount, cmd.BankName, h.now())
	if err != nil {
		return dto.WithdrawalSummary{}, err
	}
	if err := unit.Wallets().Save(ctx, wallet); err != nil {
		return dto.WithdrawalSummary{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.WithdrawalSummary{}, err
		}
		committed = true
	}
	return dto.MapWithdrawal(cmd.OwnerID, wd), nil
}

func (h *RequestWithdrawalHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ queries.Handler[GetWalletQuery, dto.WalletView] = (*GetWalletHandler)(nil)
var _ commands.Handler[RequestWithdrawalCommand, dto.WithdrawalSummary] = (*RequestWithdrawalHandler)(nil)
