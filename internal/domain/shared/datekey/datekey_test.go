package datekey

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTime_UsesLocalCalendarDay(t *testing.T) {
	// An early-morning instant in a UTC+7 zone is still the previous day in
	// UTC. The key must follow the local components, not the UTC conversion.
	loc := time.FixedZone("ICT", 7*60*60)
	early := time.Date(2025, 3, 11, 3, 0, 0, 0, loc)

	assert.Equal(t, Key("2025-03-11"), FromTime(early))
	assert.Equal(t, Key("2025-03-10"), FromTime(early.UTC()))
}

func TestFromTime_RoundTrip(t *testing.T) {
	cases := []struct {
		y    int
		m    time.Month
		d    int
	}{
		{2025, time.January, 1},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2025, time.December, 31},
		{1999, time.September, 9},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%04d-%02d-%02d", tc.y, tc.m, tc.d), func(t *testing.T) {
			key := FromTime(time.Date(tc.y, tc.m, tc.d, 15, 4, 5, 0, time.Local))
			assert.Equal(t, Key(fmt.Sprintf("%04d-%02d-%02d", tc.y, tc.m, tc.d)), key)
		})
	}
}

func TestParse(t *testing.T) {
	key, err := Parse("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, Key("2025-03-10"), key)

	for _, raw := range []string{"", "not-a-date", "2025-13-01", "2025-02-30", "10/03/2025"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", raw)
	}
}

func TestKey_Ordering(t *testing.T) {
	a := Key("2025-03-10")
	b := Key("2025-03-15")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
}

func TestKey_Next(t *testing.T) {
	assert.Equal(t, Key("2025-03-01"), Key("2025-02-28").Next())
	assert.Equal(t, Key("2024-02-29"), Key("2024-02-28").Next())
	assert.Equal(t, Key("2026-01-01"), Key("2025-12-31").Next())
}
