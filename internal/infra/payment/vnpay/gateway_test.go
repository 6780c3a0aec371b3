package vnpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/money"
)

func testGateway() *Gateway {
	return &Gateway{
		TmnCode:    "DEMO0001",
		HashSecret: "secret",
		Endpoint:   "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:8080/api/v1/bookings/payment/return",
		Now: func() time.Time {
			return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
		},
	}
}

func signParams(secret string, params url.Values) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(canonicalQuery(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPayURL(t *testing.T) {
	g := testGateway()
	raw, err := g.PayURL(context.Background(), "bk-42", money.VND(1_500_000), "203.0.113.9")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	params := parsed.Query()

	assert.Equal(t, "DEMO0001", params.Get("vnp_TmnCode"))
	assert.Equal(t, "bk-42", params.Get("vnp_TxnRef"))
	assert.Equal(t, strconv.FormatInt(1_500_000*100, 10), params.Get("vnp_Amount"))
	assert.Equal(t, "VND", params.Get("vnp_CurrCode"))
	assert.Equal(t, "203.0.113.9", params.Get("vnp_IpAddr"))
	assert.NotEmpty(t, params.Get("vnp_SecureHash"))

	// The signature must cover every parameter except the hash itself.
	signed := url.Values{}
	for key, values := range params {
		if key == "vnp_SecureHash" {
			continue
		}
		signed[key] = values
	}
	assert.Equal(t, signParams(g.HashSecret, signed), params.Get("vnp_SecureHash"))
}

func TestPayURLRequiresCredentials(t *testing.T) {
	g := testGateway()
	g.HashSecret = ""
	_, err := g.PayURL(context.Background(), "bk-1", money.VND(100), "127.0.0.1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func returnParams(secret string, code string) url.Values {
	params := url.Values{}
	params.Set("vnp_TxnRef", "bk-42")
	params.Set("vnp_Amount", "150000000")
	params.Set("vnp_ResponseCode", code)
	params.Set("vnp_TransactionNo", "14226112")
	params.Set("vnp_TmnCode", "DEMO0001")
	params.Set("vnp_SecureHash", signParams(secret, params))
	return params
}

func TestVerifyReturn(t *testing.T) {
	g := testGateway()

	t.Run("successful payment", func(t *testing.T) {
		result, err := g.VerifyReturn(context.Background(), returnParams(g.HashSecret, "00"))
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		assert.Equal(t, "bk-42", result.BookingID)
		assert.Equal(t, "14226112", result.Reference)
		assert.Equal(t, int64(1_500_000), result.Amount.Amount)
	})

	t.Run("declined payment", func(t *testing.T) {
		result, err := g.VerifyReturn(context.Background(), returnParams(g.HashSecret, "24"))
		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Contains(t, result.FailReason, "24")
	})

	t.Run("tampered amount is rejected", func(t *testing.T) {
		params := returnParams(g.HashSecret, "00")
		params.Set("vnp_Amount", "1")
		_, err := g.VerifyReturn(context.Background(), params)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		_, err := g.VerifyReturn(context.Background(), returnParams("other-secret", "00"))
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("missing hash", func(t *testing.T) {
		params := returnParams(g.HashSecret, "00")
		params.Del("vnp_SecureHash")
		_, err := g.VerifyReturn(context.Background(), params)
		assert.ErrorIs(t, err, ErrMissingParams)
	})
}
