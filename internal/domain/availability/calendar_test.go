package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/shared/datekey"
	"staybook/internal/domain/shared/daterange"
)

func TestBuildMonth_February2025(t *testing.T) {
	// Feb 1 2025 is a Saturday: six leading blanks, then 28 days.
	cells := BuildMonth(2025, 1)

	require.Len(t, cells, 6+28)
	for i := 0; i < 6; i++ {
		assert.Nil(t, cells[i], "slot %d should be padding", i)
	}
	for i := 6; i < len(cells); i++ {
		require.NotNil(t, cells[i])
		assert.Equal(t, i-5, cells[i].Day())
	}
	assert.Equal(t, time.February, cells[6].Month())
	assert.Equal(t, 2025, cells[6].Year())
}

func TestBuildMonth_NoTrailingPadding(t *testing.T) {
	// June 1 2025 is a Sunday: no leading blanks, 30 days, nothing appended.
	cells := BuildMonth(2025, 5)
	require.Len(t, cells, 30)
	assert.NotNil(t, cells[0])
	assert.NotNil(t, cells[29])
}

func TestBuildMonth_LeapFebruary(t *testing.T) {
	// Feb 1 2024 is a Thursday: four leading blanks, 29 days.
	cells := BuildMonth(2024, 1)
	require.Len(t, cells, 4+29)
	assert.Equal(t, 29, cells[len(cells)-1].Day())
}

func TestAnnotateMonth(t *testing.T) {
	r, err := daterange.New("2025-03-10", "2025-03-12")
	require.NoError(t, err)
	occupied := &booking.Booking{ID: "bk-1", Range: r, Status: booking.StatusPaid}
	cancelled := &booking.Booking{ID: "bk-2", Range: r, Status: booking.StatusCancelled}

	now := time.Date(2025, 3, 8, 14, 0, 0, 0, time.Local)
	cells := AnnotateMonth(2025, 2, []*booking.Booking{occupied, cancelled}, now)

	// March 1 2025 is a Saturday: six leading padding cells.
	require.Len(t, cells, 6+31)
	assert.True(t, cells[0].Date == nil)

	byDay := make(map[datekey.Key]Cell)
	for _, c := range cells {
		if c.Date != nil {
			byDay[c.Day] = c
		}
	}

	assert.True(t, byDay["2025-03-07"].IsPast)
	assert.True(t, byDay["2025-03-08"].IsToday)
	assert.False(t, byDay["2025-03-08"].IsPast)

	assert.True(t, byDay["2025-03-10"].IsBooked)
	require.NotNil(t, byDay["2025-03-10"].Booking)
	assert.Equal(t, booking.ID("bk-1"), byDay["2025-03-10"].Booking.ID)
	assert.True(t, byDay["2025-03-11"].IsBooked)
	assert.False(t, byDay["2025-03-12"].IsBooked, "check-out day stays free")
	assert.False(t, byDay["2025-03-09"].IsBooked)
}
