package policies

import (
	"context"
	"net/url"

	"staybook/internal/domain/shared/money"
)

// PaymentResult is the gateway's verdict extracted from return parameters.
type PaymentResult struct {
	BookingID  string
	Reference  string
	Amount     money.Money
	Succeeded  bool
	FailReason string
}

// PaymentsPort abstracts the redirect-based payment gateway: the customer is
// sent to PayURL and comes back through a signed return URL the gateway
// appends its verdict to.
type PaymentsPort interface {
	PayURL(ctx context.Context, bookingID string, amount money.Money, clientIP string) (string, error)
	VerifyReturn(ctx context.Context, params url.Values) (PaymentResult, error)
}
