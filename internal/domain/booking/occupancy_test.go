package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/datekey"
	"staybook/internal/domain/shared/daterange"
)

func stay(t *testing.T, in, out string, status Status) *Booking {
	t.Helper()
	r, err := daterange.New(datekey.Key(in), datekey.Key(out))
	require.NoError(t, err)
	return &Booking{ID: ID(in + "/" + out), Range: r, Status: status}
}

func TestIsDateBooked_HalfOpenInterval(t *testing.T) {
	bookings := []*Booking{stay(t, "2025-03-10", "2025-03-15", StatusPaid)}

	tests := []struct {
		day    string
		booked bool
	}{
		{"2025-03-09", false},
		{"2025-03-10", true},  // check-in day
		{"2025-03-12", true},
		{"2025-03-14", true},  // last night
		{"2025-03-15", false}, // check-out day is free
		{"2025-03-16", false},
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			assert.Equal(t, tt.booked, IsDateBooked(datekey.Key(tt.day), bookings))
		})
	}
}

func TestIsDateBooked_StatusFilter(t *testing.T) {
	day := datekey.Key("2025-03-12")

	assert.True(t, IsDateBooked(day, []*Booking{stay(t, "2025-03-10", "2025-03-15", StatusPaid)}))
	assert.True(t, IsDateBooked(day, []*Booking{stay(t, "2025-03-10", "2025-03-15", StatusPending)}))

	for _, status := range []Status{StatusCancelled, StatusFailed, StatusRefunded} {
		assert.False(t, IsDateBooked(day, []*Booking{stay(t, "2025-03-10", "2025-03-15", status)}),
			"status %s must not block availability", status)
	}
}

func TestBookingForDate_FirstMatchWins(t *testing.T) {
	first := stay(t, "2025-03-10", "2025-03-15", StatusPending)
	second := stay(t, "2025-03-12", "2025-03-18", StatusPaid)
	bookings := []*Booking{first, second}

	got := BookingForDate(datekey.Key("2025-03-12"), bookings)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)

	assert.Nil(t, BookingForDate(datekey.Key("2025-03-20"), bookings))
}

func TestRangeConflicts(t *testing.T) {
	existing := []*Booking{
		stay(t, "2025-03-10", "2025-03-15", StatusPaid),
		stay(t, "2025-04-01", "2025-04-05", StatusCancelled),
	}

	propose := func(in, out string) daterange.Range {
		r, err := daterange.New(datekey.Key(in), datekey.Key(out))
		require.NoError(t, err)
		return r
	}

	assert.True(t, RangeConflicts(propose("2025-03-10", "2025-03-15"), existing), "identical range")
	assert.True(t, RangeConflicts(propose("2025-03-11", "2025-03-13"), existing), "inside existing")
	assert.True(t, RangeConflicts(propose("2025-03-05", "2025-03-20"), existing), "contains existing")
	assert.False(t, RangeConflicts(propose("2025-03-15", "2025-03-20"), existing), "starts on check-out boundary")
	assert.False(t, RangeConflicts(propose("2025-03-01", "2025-03-10"), existing), "ends on check-in boundary")
	assert.False(t, RangeConflicts(propose("2025-04-01", "2025-04-05"), existing), "cancelled bookings never conflict")
}
