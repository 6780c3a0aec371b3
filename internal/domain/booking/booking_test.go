package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	r, err := daterange.New("2025-03-10", "2025-03-15")
	require.NoError(t, err)
	b, err := New(CreateParams{
		ID:        "bk-1",
		HotelID:   "h-1",
		RoomID:    "r-1",
		GuestID:   "u-1",
		GuestName: "Alex",
		Range:     r,
		Guests:    2,
		Total:     money.VND(2_500_000),
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNew_Validation(t *testing.T) {
	r, err := daterange.New("2025-03-10", "2025-03-15")
	require.NoError(t, err)

	_, err = New(CreateParams{ID: "b", GuestID: "u", Range: r, Guests: 0, Total: money.VND(100)})
	assert.ErrorIs(t, err, ErrInvalidGuests)

	_, err = New(CreateParams{ID: "b", Range: r, Guests: 1, Total: money.VND(100)})
	assert.ErrorIs(t, err, ErrGuestRequired)

	_, err = New(CreateParams{ID: "b", GuestID: "u", Range: r, Guests: 1})
	assert.ErrorIs(t, err, ErrZeroTotal)
}

func TestNew_StartsPendingAndRecordsEvent(t *testing.T) {
	b := newTestBooking(t)

	assert.Equal(t, StatusPending, b.Status)
	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.requested", events[0].EventName())
}

func TestBooking_PaymentLifecycle(t *testing.T) {
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("pending to paid", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.MarkPaid("vnp-123", now))
		assert.Equal(t, StatusPaid, b.Status)
		assert.Equal(t, "vnp-123", b.PaymentRef)

		assert.ErrorIs(t, b.MarkPaid("vnp-456", now), ErrInvalidState)
	})

	t.Run("pending to failed", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.MarkFailed("gateway declined", now))
		assert.Equal(t, StatusFailed, b.Status)
	})

	t.Run("pending to cancelled", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Cancel("changed plans", now))
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("paid to refunded", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.MarkPaid("vnp-123", now))

		refund, err := b.Refund("admin approved", now)
		require.NoError(t, err)
		assert.Equal(t, b.Total, refund)
		assert.Equal(t, StatusRefunded, b.Status)
	})

	t.Run("pending cannot be refunded", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Refund("too early", now)
		assert.ErrorIs(t, err, ErrNotRefundable)
	})
}

func TestValidateCheckIn(t *testing.T) {
	// Clock reads late evening; the check-in on the same local day is valid.
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.Local)

	sameDay, err := daterange.New("2025-03-10", "2025-03-12")
	require.NoError(t, err)
	assert.NoError(t, ValidateCheckIn(sameDay, now))

	past, err := daterange.New("2025-03-09", "2025-03-12")
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateCheckIn(past, now), ErrCheckInInPast)
}
