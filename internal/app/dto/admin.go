package dto

import (
	"time"

	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

type UserSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

type UserCollection struct {
	Items  []UserSummary `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func MapUserSummary(u *domainuser.User) UserSummary {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return UserSummary{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Roles:     roles,
		Blocked:   u.Blocked,
		CreatedAt: u.CreatedAt,
	}
}

type WithdrawalSummary struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Amount      MoneyDTO  `json:"amount"`
	BankAccount string    `json:"bank_account"`
	BankName    string    `json:"bank_name"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
	ReviewedAt  time.Time `json:"reviewed_at,omitzero"`
}

func MapWithdrawal(owner string, wd domainwallet.Withdrawal) WithdrawalSummary {
	return WithdrawalSummary{
		ID:          wd.ID,
		Owner:       owner,
		Amount:      MoneyDTO{Amount: wd.Amount.Amount, Currency: wd.Amount.Currency},
		BankAccount: wd.BankAccount,
		BankName:    wd.BankName,
		Status:      string(wd.Status),
		Note:        wd.Note,
		RequestedAt: wd.RequestedAt,
		ReviewedAt:  wd.ReviewedAt,
	}
}
