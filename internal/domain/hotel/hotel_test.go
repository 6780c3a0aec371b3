package hotel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/money"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestHotel(t *testing.T) *Hotel {
	t.Helper()
	h, err := New(CreateParams{
		ID:    "h-1",
		Owner: "owner-1",
		Name:  "Riverside Inn",
		Address: Address{
			Line1:   "12 Tran Phu",
			City:    "Da Nang",
			Country: "VN",
		},
		Now: now,
	})
	require.NoError(t, err)
	return h
}

func TestNew_Validation(t *testing.T) {
	_, err := New(CreateParams{ID: "h", Owner: "o", Name: "  ", Address: Address{Line1: "a", City: "b"}})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = New(CreateParams{ID: "h", Owner: "o", Name: "Inn", Address: Address{}})
	assert.ErrorIs(t, err, ErrAddressRequired)
}

func TestApprovalLifecycle(t *testing.T) {
	t.Run("pending to approved", func(t *testing.T) {
		h := newTestHotel(t)
		assert.Equal(t, ApprovalPending, h.Approval)
		assert.False(t, h.Visible())

		require.NoError(t, h.Approve(now))
		assert.True(t, h.Visible())
		assert.ErrorIs(t, h.Approve(now), ErrInvalidState)
	})

	t.Run("pending to rejected and back", func(t *testing.T) {
		h := newTestHotel(t)
		require.NoError(t, h.Reject("missing license scan", now))
		assert.Equal(t, ApprovalRejected, h.Approval)
		assert.Equal(t, "missing license scan", h.RejectNote)
		assert.False(t, h.Visible())

		// A rejected hotel can still be approved after a re-review.
		require.NoError(t, h.Approve(now))
		assert.True(t, h.Visible())
		assert.Empty(t, h.RejectNote)
	})

	t.Run("approved cannot be rejected", func(t *testing.T) {
		h := newTestHotel(t)
		require.NoError(t, h.Approve(now))
		assert.ErrorIs(t, h.Reject("too late", now), ErrInvalidState)
	})
}

func TestRooms(t *testing.T) {
	h := newTestHotel(t)

	room, err := h.AddRoom("r-1", "Deluxe Twin", money.VND(1_200_000), 2, now)
	require.NoError(t, err)
	assert.Equal(t, RoomID("r-1"), room.ID)

	_, err = h.AddRoom("r-2", "", money.VND(100), 1, now)
	assert.ErrorIs(t, err, ErrRoomName)
	_, err = h.AddRoom("r-2", "Suite", money.VND(0), 1, now)
	assert.ErrorIs(t, err, ErrRoomRate)
	_, err = h.AddRoom("r-2", "Suite", money.VND(100), 0, now)
	assert.ErrorIs(t, err, ErrRoomCapacity)

	got, err := h.Room("r-1")
	require.NoError(t, err)
	assert.Equal(t, "Deluxe Twin", got.Name)

	got.Name = "Deluxe King"
	require.NoError(t, h.UpdateRoom(got, now))
	updated, err := h.Room("r-1")
	require.NoError(t, err)
	assert.Equal(t, "Deluxe King", updated.Name)

	require.NoError(t, h.RemoveRoom("r-1", now))
	_, err = h.Room("r-1")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, h.RemoveRoom("r-1", now), ErrRoomNotFound)
}

func TestOwnedBy(t *testing.T) {
	h := newTestHotel(t)
	assert.NoError(t, h.OwnedBy("owner-1"))
	assert.ErrorIs(t, h.OwnedBy("owner-2"), ErrNotOwner)
}

func TestSearchParams_Normalized(t *testing.T) {
	p := SearchParams{
		Query:     "  Riverside  ",
		City:      "Da Nang",
		Amenities: []string{"WiFi", "wifi", " pool ", ""},
		PriceMin:  -5,
		PriceMax:  0,
		Limit:     500,
		Offset:    -1,
		Sort:      "bogus",
	}.Normalized()

	assert.Equal(t, "riverside", p.Query)
	assert.Equal(t, "da nang", p.City)
	assert.Equal(t, []string{"wifi", "pool"}, p.Amenities)
	assert.Equal(t, int64(0), p.PriceMin)
	assert.Equal(t, maxSearchLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, SortByNewest, p.Sort)
}
