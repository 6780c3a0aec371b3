package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/datekey"
)

func mustRange(t *testing.T, in, out string) Range {
	t.Helper()
	r, err := New(datekey.Key(in), datekey.Key(out))
	require.NoError(t, err)
	return r
}

func TestNew_Validation(t *testing.T) {
	_, err := New("2025-03-15", "2025-03-10")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New("2025-03-10", "2025-03-10")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New("garbage", "2025-03-10")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestRange_Overlaps(t *testing.T) {
	existing := mustRange(t, "2025-03-10", "2025-03-15")

	tests := []struct {
		name     string
		in, out  string
		overlaps bool
	}{
		{"identical", "2025-03-10", "2025-03-15", true},
		{"disjoint before", "2025-03-01", "2025-03-05", false},
		{"disjoint after", "2025-03-20", "2025-03-25", false},
		{"new fully inside", "2025-03-11", "2025-03-13", true},
		{"existing fully inside", "2025-03-08", "2025-03-20", true},
		{"starts inside", "2025-03-14", "2025-03-20", true},
		{"ends inside", "2025-03-05", "2025-03-11", true},
		{"adjacent before, shared boundary only", "2025-03-05", "2025-03-10", false},
		{"adjacent after, shared boundary only", "2025-03-15", "2025-03-20", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := mustRange(t, tt.in, tt.out)
			assert.Equal(t, tt.overlaps, candidate.Overlaps(existing))
			assert.Equal(t, tt.overlaps, existing.Overlaps(candidate))
		})
	}
}

func TestRange_ContainsDay(t *testing.T) {
	r := mustRange(t, "2025-03-10", "2025-03-15")

	assert.True(t, r.ContainsDay("2025-03-10"), "check-in day is occupied")
	assert.True(t, r.ContainsDay("2025-03-14"))
	assert.False(t, r.ContainsDay("2025-03-15"), "check-out day is free")
	assert.False(t, r.ContainsDay("2025-03-09"))
}

func TestRange_Nights(t *testing.T) {
	assert.Equal(t, 5, mustRange(t, "2025-03-10", "2025-03-15").Nights())
	assert.Equal(t, 1, mustRange(t, "2025-02-28", "2025-03-01").Nights())
}

func TestRange_NightsAcrossDSTShift(t *testing.T) {
	// US clocks spring forward on 2025-03-09; the 23-hour day must still
	// count as a full night regardless of the process time zone.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	orig := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = orig })

	assert.Equal(t, 2, mustRange(t, "2025-03-08", "2025-03-10").Nights())
	assert.Equal(t, 2, mustRange(t, "2025-11-01", "2025-11-03").Nights(), "fall-back day does not add a night")
}

func TestRange_Days(t *testing.T) {
	days := mustRange(t, "2025-02-27", "2025-03-02").Days()
	assert.Equal(t, []datekey.Key{"2025-02-27", "2025-02-28", "2025-03-01"}, days)
}
