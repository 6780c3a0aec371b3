package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/shared/datekey"
	"staybook/internal/domain/shared/daterange"
)

func TestSelection_TransitionTable(t *testing.T) {
	full := Selection{CheckIn: "2025-03-10", CheckOut: "2025-03-15"}

	tests := []struct {
		name    string
		from    Selection
		clicked datekey.Key
		want    Selection
	}{
		{"empty starts check-in", Selection{}, "2025-03-10", Selection{CheckIn: "2025-03-10"}},

		{"partial completes on later day", Selection{CheckIn: "2025-03-10"}, "2025-03-15", full},
		{"partial replaces on earlier day", Selection{CheckIn: "2025-03-10"}, "2025-03-05", Selection{CheckIn: "2025-03-05"}},
		{"partial deselects on same day", Selection{CheckIn: "2025-03-10"}, "2025-03-10", Selection{}},

		{"full clears on check-in click", full, "2025-03-10", Selection{}},
		{"full drops check-out on its click", full, "2025-03-15", Selection{CheckIn: "2025-03-10"}},
		{"full restarts on earlier day", full, "2025-03-05", Selection{CheckIn: "2025-03-05"}},
		{"full extends past check-out", full, "2025-03-20", Selection{CheckIn: "2025-03-10", CheckOut: "2025-03-20"}},
		{"full shrinks on inside day", full, "2025-03-12", Selection{CheckIn: "2025-03-10", CheckOut: "2025-03-12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Click(tt.clicked))
		})
	}
}

func TestSelection_ClickScenario(t *testing.T) {
	var s Selection

	s = s.Click("2025-03-10")
	assert.Equal(t, Selection{CheckIn: "2025-03-10"}, s)
	assert.True(t, s.Partial())

	s = s.Click("2025-03-15")
	assert.Equal(t, Selection{CheckIn: "2025-03-10", CheckOut: "2025-03-15"}, s)
	assert.True(t, s.Full())

	s = s.Click("2025-03-12")
	assert.Equal(t, Selection{CheckIn: "2025-03-10", CheckOut: "2025-03-12"}, s)

	s = s.Click("2025-03-10")
	assert.True(t, s.Empty())
}

func TestGuardClick(t *testing.T) {
	r, err := daterange.New("2025-03-10", "2025-03-15")
	require.NoError(t, err)
	bookings := []*booking.Booking{{ID: "bk-1", Range: r, Status: booking.StatusPending}}
	today := datekey.Key("2025-03-08")

	assert.ErrorIs(t, GuardClick("2025-03-07", today, bookings), ErrPastDate)
	assert.ErrorIs(t, GuardClick("2025-03-12", today, bookings), ErrDateBooked)
	assert.NoError(t, GuardClick("2025-03-08", today, bookings), "today itself is clickable")
	assert.NoError(t, GuardClick("2025-03-15", today, bookings), "check-out day is clickable")
	assert.NoError(t, GuardClick("2025-03-20", today, bookings))
}
