package wallet

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

var (
	ErrNotFound            = errors.New("wallet: not found")
	ErrInsufficientFunds   = errors.New("wallet: insufficient funds")
	ErrInvalidAmount       = errors.New("wallet: amount must be positive")
	ErrWithdrawalNotFound  = errors.New("wallet: withdrawal not found")
	ErrWithdrawalFinalized = errors.New("wallet: withdrawal already reviewed")
	ErrBankDetailsRequired = errors.New("wallet: bank details are required")
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

type Withdrawal struct {
	ID          string
	Amount      money.Money
	BankAccount string
	BankName    string
	Status      WithdrawalStatus
	Note        string
	RequestedAt time.Time
	ReviewedAt  time.Time
}

// Wallet accumulates an owner's earnings from paid bookings and tracks
// withdrawal requests against the balance.
type Wallet struct {
	Owner       user.ID
	Balance     money.Money
	Withdrawals []Withdrawal
	Version     int64
	UpdatedAt   time.Time
}

type Repository interface {
	ByOwner(ctx context.Context, owner user.ID) (*Wallet, error)
	Save(ctx context.Context, w *Wallet) error
	ListPendingWithdrawals(ctx context.Context) ([]*Wallet, error)
}

func New(owner user.ID) *Wallet {
	return &Wallet{Owner: owner, Balance: money.VND(0)}
}

// CreditBookingPayout adds a paid booking's total to the balance.
func (w *Wallet) CreditBookingPayout(b *booking.Booking, now time.Time) error {
	if b.Total.Amount <= 0 {
		return ErrInvalidAmount
	}
	balance, err := w.Balance.Add(b.Total)
	if err != nil {
		return err
	}
	w.Balance = balance
	w.touch(now)
	return nil
}

// Debit removes the refunded amount when a paid booking is reversed. The
// balance may go negative if the payout was already withdrawn; the ledger
// stays truthful and the discrepancy is settled out of band.
func (w *Wallet) Debit(amount money.Money, now time.Time) error {
	if amount.Amount <= 0 {
		return ErrInvalidAmount
	}
	balance, err := w.Balance.Sub(amount)
	if err != nil {
		return err
	}
	w.Balance = balance
	w.touch(now)
	return nil
}

// RequestWithdrawal files a pending withdrawal. The amount is held against
// the balance immediately so a second request cannot double-spend it.
func (w *Wallet) RequestWithdrawal(id string, amount money.Money, bankAccount, bankName string, now time.Time) (Withdrawal, error) {
	if amount.Amount <= 0 {
		return Withdrawal{}, ErrInvalidAmount
	}
	if strings.TrimSpace(bankAccount) == "" || strings.TrimSpace(bankName) == "" {
		return Withdrawal{}, ErrBankDetailsRequired
	}
	if amount.Amount > w.Balance.Amount {
		return Withdrawal{}, ErrInsufficientFunds
	}
	balance, err := w.Balance.Sub(amount)
	if err != nil {
		return Withdrawal{}, err
	}
	wd := Withdrawal{
		ID:          id,
		Amount:      amount,
		BankAccount: strings.TrimSpace(bankAccount),
		BankName:    strings.TrimSpace(bankName),
		Status:      WithdrawalPending,
		RequestedAt: now.UTC(),
	}
	w.Balance = balance
	w.Withdrawals = append(w.Withdrawals, wd)
	w.touch(now)
	return wd, nil
}

// ApproveWithdrawal finalizes a pending withdrawal; the held amount leaves
// the platform.
func (w *Wallet) ApproveWithdrawal(id string, now time.Time) error {
	wd, err := w.pendingWithdrawal(id)
	if err != nil {
		return err
	}
	wd.Status = WithdrawalApproved
	wd.ReviewedAt = now.UTC()
	w.touch(now)
	return nil
}

// RejectWithdrawal declines a pending withdrawal and returns the held
// amount to the balance.
func (w *Wallet) RejectWithdrawal(id, note string, now time.Time) error {
	wd, err := w.pendingWithdrawal(id)
	if err != nil {
		return err
	}
	balance, err := w.Balance.Add(wd.Amount)
	if err != nil {
		return err
	}
	wd.Status = WithdrawalRejected
	wd.Note = strings.TrimSpace(note)
	wd.ReviewedAt = now.UTC()
	w.Balance = balance
	w.touch(now)
	return nil
}

func (w *Wallet) pendingWithdrawal(id string) (*Withdrawal, error) {
	for i := range w.Withdrawals {
		if w.Withdrawals[i].ID != id {
			continue
		}
		if w.Withdrawals[i].Status != WithdrawalPending {
			return nil, ErrWithdrawalFinalized
		}
		return &w.Withdrawals[i], nil
	}
	return nil, ErrWithdrawalNotFound
}

func (w *Wallet) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	w.UpdatedAt = now.UTC()
}
