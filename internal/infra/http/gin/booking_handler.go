package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	bookingapp "staybook/internal/app/handlers/booking"
	"staybook/internal/app/queries"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	"staybook/internal/domain/shared/datekey"
	"staybook/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	HotelID  string `json:"hotel_id"`
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "customer")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID:       uuid.NewString(),
		HotelID:         req.HotelID,
		RoomID:          req.RoomID,
		GuestID:         user.ID,
		GuestName:       user.Name,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requireRole(c, "customer")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)
	cmd := bookingapp.CancelBookingCommand{
		BookingID: c.Param("id"),
		GuestID:   user.ID,
		Reason:    req.Reason,
	}
	if _, err := commands.Dispatch[bookingapp.CancelBookingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BookingHandler) MyBookings(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := bookingapp.GuestBookingsQuery{GuestID: user.ID}
	result, err := queries.Ask[bookingapp.GuestBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("guest bookings query failed", "error", err, "user_id", user.ID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookings"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// PaymentURL hands the guest a gateway checkout URL for a pending booking.
func (h BookingHandler) PaymentURL(c *gin.Context) {
	user, ok := requireRole(c, "customer")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := bookingapp.PaymentURLQuery{
		BookingID: c.Param("id"),
		GuestID:   user.ID,
		ClientIP:  c.ClientIP(),
	}
	url, err := queries.Ask[bookingapp.PaymentURLQuery, string](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_url": url})
}

// PaymentReturn is the gateway redirect target. The signature inside the
// query string authenticates the request, so no bearer token is required.
func (h BookingHandler) PaymentReturn(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := bookingapp.SettlePaymentCommand{ReturnParams: c.Request.URL.Query()}
	result, err := commands.Dispatch[bookingapp.SettlePaymentCommand, *bookingapp.SettlePaymentResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("payment return rejected", "error", err)
		}
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, datekey.ErrInvalidDate),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrCheckInInPast),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, bookingapp.ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrNotFound), errors.Is(err, domainhotel.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrRangeUnavailable),
		errors.Is(err, bookingapp.ErrHotelNotBookable),
		errors.Is(err, bookingapp.ErrNotPayable),
		errors.Is(err, domainbooking.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("booking operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ BookingHTTP = BookingHandler{}
