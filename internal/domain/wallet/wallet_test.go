package wallet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/shared/money"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func fundedWallet(t *testing.T, amount int64) *Wallet {
	t.Helper()
	w := New("owner-1")
	err := w.CreditBookingPayout(&booking.Booking{ID: "bk-1", Total: money.VND(amount)}, now)
	require.NoError(t, err)
	return w
}

func TestCreditBookingPayout(t *testing.T) {
	w := fundedWallet(t, 3_000_000)
	assert.Equal(t, money.VND(3_000_000), w.Balance)

	err := w.CreditBookingPayout(&booking.Booking{Total: money.VND(0)}, now)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRequestWithdrawal_HoldsAmount(t *testing.T) {
	w := fundedWallet(t, 3_000_000)

	wd, err := w.RequestWithdrawal("wd-1", money.VND(2_000_000), "0123456789", "VCB", now)
	require.NoError(t, err)
	assert.Equal(t, WithdrawalPending, wd.Status)
	assert.Equal(t, money.VND(1_000_000), w.Balance)

	// The held amount is no longer spendable.
	_, err = w.RequestWithdrawal("wd-2", money.VND(1_500_000), "0123456789", "VCB", now)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestRequestWithdrawal_Validation(t *testing.T) {
	w := fundedWallet(t, 1_000_000)

	_, err := w.RequestWithdrawal("wd-1", money.VND(0), "0123456789", "VCB", now)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = w.RequestWithdrawal("wd-1", money.VND(100), "", "VCB", now)
	assert.ErrorIs(t, err, ErrBankDetailsRequired)
}

func TestApproveWithdrawal(t *testing.T) {
	w := fundedWallet(t, 1_000_000)
	_, err := w.RequestWithdrawal("wd-1", money.VND(400_000), "0123456789", "VCB", now)
	require.NoError(t, err)

	require.NoError(t, w.ApproveWithdrawal("wd-1", now))
	assert.Equal(t, WithdrawalApproved, w.Withdrawals[0].Status)
	assert.Equal(t, money.VND(600_000), w.Balance, "approved amount stays debited")

	assert.ErrorIs(t, w.ApproveWithdrawal("wd-1", now), ErrWithdrawalFinalized)
	assert.ErrorIs(t, w.ApproveWithdrawal("missing", now), ErrWithdrawalNotFound)
}

func TestRejectWithdrawal_RestoresBalance(t *testing.T) {
	w := fundedWallet(t, 1_000_000)
	_, err := w.RequestWithdrawal("wd-1", money.VND(400_000), "0123456789", "VCB", now)
	require.NoError(t, err)

	require.NoError(t, w.RejectWithdrawal("wd-1", "account number mismatch", now))
	assert.Equal(t, WithdrawalRejected, w.Withdrawals[0].Status)
	assert.Equal(t, "account number mismatch", w.Withdrawals[0].Note)
	assert.Equal(t, money.VND(1_000_000), w.Balance)
}

func TestDebit_AllowsNegativeBalance(t *testing.T) {
	w := fundedWallet(t, 500_000)
	require.NoError(t, w.Debit(money.VND(800_000), now))
	assert.Equal(t, money.VND(-300_000), w.Balance)
}
