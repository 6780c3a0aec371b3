package admin

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

const (
	pendingWithdrawalsKey = "admin.pending_withdrawals"
	reviewWithdrawalKey   = "admin.review_withdrawal"
)

var ErrUnknownDecision = errors.New("admin: withdrawal decision must be approve or reject")

// PendingWithdrawalsQuery lists withdrawal requests awaiting review across
// all owner wallets.
type PendingWithdrawalsQuery struct{}

func (q PendingWithdrawalsQuery) Key() string { return pendingWithdrawalsKey }

type PendingWithdrawalsHandler struct {
	UoWFactory uow.Factory
}

func (h *PendingWithdrawalsHandler) Handle(ctx context.Context, q PendingWithdrawalsQuery) ([]dto.WithdrawalSummary, error) {
	ctx, unit, managed, err := uow.Require(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	wallets, err := unit.Wallets().ListPendingWithdrawals(ctx)
	if err != nil {
		return nil, err
	}
	var out []dto.WithdrawalSummary
	for _, w := range wallets {
		for _, wd := range w.Withdrawals {
			if wd.Status != domainwallet.WithdrawalPending {
				continue
			}
			out = append(out, dto.MapWithdrawal(string(w.Owner), wd))
		}
	}
	return out, nil
}

type WithdrawalDecision string

const (
	DecisionApprove WithdrawalDecision = "approve"
	DecisionReject  WithdrawalDecision = "reject"
)

type ReviewWithdrawalCommand struct {
	OwnerID      string
	WithdrawalID string
	Decision     WithdrawalDecision
	Note         string
}

func (c ReviewWithdrawalCommand) Key() string { return reviewWithdrawalKey }

type ReviewWithdrawalHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *ReviewWithdrawalHandler) Handle(ctx context.Context, cmd ReviewWithdrawalCommand) (struct{}, error) {
	var zero struct{}
	if cmd.Decision != DecisionApprove && cmd.Decision != DecisionReject {
		return zero, ErrUnknownDecision
	}
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

	wallet, err := unit.Wallets().ByOwner(ctx, domainuser.ID(cmd.OwnerID))
	if err != nil {
		return zero, err
	}
	now := nowOf(h.Now)
	if cmd.Decision == DecisionApprove {
		err = wallet.ApproveWithdrawal(cmd.WithdrawalID, now)
	} else {
		err = wallet.RejectWithdrawal(cmd.WithdrawalID, cmd.Note, now)
	}
	if err != nil {
		return zero, err
	}
	if err := unit.Wallets().Save(ctx, wallet); err != nil {
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

var _ queries.Handler[PendingWithdrawalsQuery, []dto.WithdrawalSummary] = (*PendingWithdrawalsHandler)(nil)
var _ commands.Handler[ReviewWithdrawalCommand, struct{}] = (*ReviewWithdrawalHandler)(nil)
