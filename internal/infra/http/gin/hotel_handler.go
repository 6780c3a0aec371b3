package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	availabilityapp "staybook/internal/app/handlers/availability"
	hotelsapp "staybook/internal/app/handlers/hotels"
	"staybook/internal/app/queries"
	domainhotel "staybook/internal/domain/hotel"
)

// HotelHandler serves the public catalog surface: search, hotel details and
// room availability calendars.
type HotelHandler struct {
	Queries queries.Bus
}

func (h HotelHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel handler unavailable"})
		return
	}
	query := hotelsapp.SearchCatalogQuery{
		Query:       c.Query("query"),
		City:        c.Query("city"),
		Country:     c.Query("country"),
		Amenities:   splitCSV(c.Query("amenities")),
		MinCapacity: parseInt(c.Query("min_capacity")),
		PriceMin:    parseInt64(c.Query("price_min")),
		PriceMax:    parseInt64(c.Query("price_max")),
		Sort:        c.Query("sort"),
		Limit:       parseIntWithDefault(c.Query("limit"), 24),
		Offset:      parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[hotelsapp.SearchCatalogQuery, dto.HotelCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HotelHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel handler unavailable"})
		return
	}
	hotelID := c.Param("id")
	if hotelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hotel id is required"})
		return
	}
	query := hotelsapp.GetHotelQuery{HotelID: hotelID, CallerID: callerID(c)}
	result, err := queries.Ask[hotelsapp.GetHotelQuery, dto.HotelDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainhotel.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Calendar renders one month of a room's availability. Month defaults to the
// current month and is zero-based, matching what the frontend grid expects.
func (h HotelHandler) Calendar(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel handler unavailable"})
		return
	}
	now := time.Now()
	query := availabilityapp.GetCalendarQuery{
		HotelID:  c.Param("id"),
		RoomID:   c.Param("roomID"),
		Year:     parseIntWithDefault(c.Query("year"), now.Year()),
		Month:    parseMonth(c.Query("month"), int(now.Month())-1),
		CallerID: callerID(c),
	}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.RoomCalendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		switch {
		case errors.Is(err, availabilityapp.ErrMonthOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domainhotel.ErrNotFound), errors.Is(err, domainhotel.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ HotelHTTP = HotelHandler{}

func callerID(c *gin.Context) string {
	if p, ok := currentPrincipal(c); ok {
		return p.ID
	}
	return ""
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if value < 0 {
		return 0
	}
	return value
}

// parseMonth keeps zero as a valid value: January is month 0.
func parseMonth(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
