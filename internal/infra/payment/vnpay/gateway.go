// Package vnpay implements the redirect-based VNPay payment flow: the guest
// is sent to a signed pay URL and VNPay calls back with a signed verdict.
package vnpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"staybook/internal/app/policies"
	"staybook/internal/domain/shared/money"
)

const (
	version     = "2.1.0"
	commandPay  = "pay"
	currency    = "VND"
	locale      = "vn"
	orderType   = "other"
	timeLayout  = "20060102150405"
	codeSuccess = "00"
)

var (
	ErrBadSignature  = errors.New("vnpay: return signature mismatch")
	ErrMissingParams = errors.New("vnpay: required return parameters missing")
	ErrNotConfigured = errors.New("vnpay: terminal code and hash secret required")
)

// Gateway signs pay URLs and verifies return callbacks with the merchant's
// HMAC-SHA512 secret.
type Gateway struct {
	TmnCode    string
	HashSecret string
	Endpoint   string
	ReturnURL  string
	Expiry     time.Duration
	Now        func() time.Time
}

// PayURL builds the signed redirect URL for a booking payment. VNPay expects
// the amount multiplied by 100 and timestamps in GMT+7.
func (g *Gateway) PayURL(ctx context.Context, bookingID string, amount money.Money, clientIP string) (string, error) {
	if g.TmnCode == "" || g.HashSecret == "" {
		return "", ErrNotConfigured
	}
	now := g.now().In(vnpLocation())
	expiry := g.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := url.Values{}
	params.Set("vnp_Version", version)
	params.Set("vnp_Command", commandPay)
	params.Set("vnp_TmnCode", g.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(amount.Amount*100, 10))
	params.Set("vnp_CurrCode", currency)
	params.Set("vnp_TxnRef", bookingID)
	params.Set("vnp_OrderInfo", "Booking "+bookingID)
	params.Set("vnp_OrderType", orderType)
	params.Set("vnp_Locale", locale)
	params.Set("vnp_IpAddr", clientIP)
	params.Set("vnp_ReturnUrl", g.ReturnURL)
	params.Set("vnp_CreateDate", now.Format(timeLayout))
	params.Set("vnp_ExpireDate", now.Add(expiry).Format(timeLayout))

	query := canonicalQuery(params)
	signature := g.sign(query)
	return g.Endpoint + "?" + query + "&vnp_SecureHash=" + signature, nil
}

// VerifyReturn checks the callback signature and extracts the verdict.
func (g *Gateway) VerifyReturn(ctx context.Context, params url.Values) (policies.PaymentResult, error) {
	if g.TmnCode == "" || g.HashSecret == "" {
		return policies.PaymentResult{}, ErrNotConfigured
	}
	received := params.Get("vnp_SecureHash")
	txnRef := params.Get("vnp_TxnRef")
	if received == "" || txnRef == "" {
		return policies.PaymentResult{}, ErrMissingParams
	}

	verified := url.Values{}
	for key, values := range params {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		for _, value := range values {
			verified.Add(key, value)
		}
	}
	expected := g.sign(canonicalQuery(verified))
	if !hmac.Equal([]byte(strings.ToLower(received)), []byte(expected)) {
		return policies.PaymentResult{}, ErrBadSignature
	}

	rawAmount, err := strconv.ParseInt(params.Get("vnp_Amount"), 10, 64)
	if err != nil {
		return policies.PaymentResult{}, fmt.Errorf("vnpay: bad amount: %w", err)
	}
	code := params.Get("vnp_ResponseCode")
	result := policies.PaymentResult{
		BookingID: txnRef,
		Reference: params.Get("vnp_TransactionNo"),
		Amount:    money.Money{Amount: rawAmount / 100, Currency: currency},
		Succeeded: code == codeSuccess,
	}
	if !result.Succeeded {
		result.FailReason = "vnpay response code " + code
	}
	return result, nil
}

func (g *Gateway) sign(query string) string {
	mac := hmac.New(sha512.New, []byte(g.HashSecret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalQuery sorts keys and URL-encodes values the way VNPay's signature
// scheme requires.
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(key)))
	}
	return b.String()
}

func (g *Gateway) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func vnpLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*3600)
	}
	return loc
}

var _ policies.PaymentsPort = (*Gateway)(nil)
