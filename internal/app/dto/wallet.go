package dto

import (
	domainwallet "staybook/internal/domain/wallet"
)

type WalletView struct {
	Owner       string              `json:"owner"`
	Balance     MoneyDTO            `json:"balance"`
	Withdrawals []WithdrawalSummary `json:"withdrawals"`
}

func MapWallet(w *domainwallet.Wallet) WalletView {
	withdrawals := make([]WithdrawalSummary, 0, len(w.Withdrawals))
	for _, wd := range w.Withdrawals {
		withdrawals = append(withdrawals, MapWithdrawal(string(w.Owner), wd))
	}
	return WalletView{
		Owner:       string(w.Owner),
		Balance:     MoneyDTO{Amount: w.Balance.Amount, Currency: w.Balance.Currency},
		Withdrawals: withdrawals,
	}
}
