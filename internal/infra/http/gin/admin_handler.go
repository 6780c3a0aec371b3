package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	adminapp "staybook/internal/app/handlers/admin"
	"staybook/internal/app/queries"
	authsvc "staybook/internal/app/services/auth"
	domainbooking "staybook/internal/domain/booking"
	domainhotel "staybook/internal/domain/hotel"
	domainuser "staybook/internal/domain/user"
	domainwallet "staybook/internal/domain/wallet"
)

// AdminHandler backs the /admin group: hotel moderation, user management,
// the transaction ledger and withdrawal review.
type AdminHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Auth     *authsvc.Service
	Logger   *slog.Logger
}

type rejectHotelRequest struct {
	Note string `json:"note"`
}

type refundRequest struct {
	Reason string `json:"reason"`
}

type reviewWithdrawalRequest struct {
	OwnerID  string `json:"owner_id"`
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

func (h AdminHandler) ListUsers(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	query := adminapp.ListUsersQuery{
		Query:  c.Query("query"),
		Role:   c.Query("role"),
		Limit:  parseIntWithDefault(c.Query("limit"), 50),
		Offset: parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[adminapp.ListUsersQuery, dto.UserCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) BlockUser(c *gin.Context)   { h.setBlocked(c, true) }
func (h AdminHandler) UnblockUser(c *gin.Context) { h.setBlocked(c, false) }

func (h AdminHandler) setBlocked(c *gin.Context, blocked bool) {
	admin, ok := requireRole(c, "admin")
	if !ok {
		return
	}
	userID := c.Param("id")
	cmd := adminapp.SetUserBlockedCommand{UserID: userID, AdminID: admin.ID, Blocked: blocked}
	if _, err := commands.Dispatch[adminapp.SetUserBlockedCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondError(c, err)
		return
	}
	// Blocking takes effect immediately: live sessions are revoked.
	if blocked && h.Auth != nil {
		if err := h.Auth.RevokeUserSessions(c.Request.Context(), domainuser.ID(userID)); err != nil && h.Logger != nil {
			h.Logger.Warn("session revocation failed", "error", err, "user_id", userID)
		}
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) PendingHotels(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	result, err := queries.Ask[adminapp.PendingHotelsQuery, []dto.HotelDetail](c.Request.Context(), h.Queries, adminapp.PendingHotelsQuery{})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

func (h AdminHandler) ApproveHotel(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	cmd := adminapp.ApproveHotelCommand{HotelID: c.Param("id")}
	if _, err := commands.Dispatch[adminapp.ApproveHotelCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) RejectHotel(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	var req rejectHotelRequest
	_ = c.ShouldBindJSON(&req)
	cmd := adminapp.RejectHotelCommand{HotelID: c.Param("id"), Note: req.Note}
	if _, err := commands.Dispatch[adminapp.RejectHotelCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) Transactions(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	query := adminapp.ListTransactionsQuery{Status: c.Query("status")}
	result, err := queries.Ask[adminapp.ListTransactionsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) RefundBooking(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	var req refundRequest
	_ = c.ShouldBindJSON(&req)
	cmd := adminapp.RefundBookingCommand{BookingID: c.Param("id"), Reason: req.Reason}
	if _, err := commands.Dispatch[adminapp.RefundBookingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) PendingWithdrawals(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	result, err := queries.Ask[adminapp.PendingWithdrawalsQuery, []dto.WithdrawalSummary](c.Request.Context(), h.Queries, adminapp.PendingWithdrawalsQuery{})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

func (h AdminHandler) ReviewWithdrawal(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	var req reviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := adminapp.ReviewWithdrawalCommand{
		OwnerID:      req.OwnerID,
		WithdrawalID: c.Param("id"),
		Decision:     adminapp.WithdrawalDecision(req.Decision),
		Note:         req.Note,
	}
	if _, err := commands.Dispatch[adminapp.ReviewWithdrawalCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainhotel.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound),
		errors.Is(err, domainwallet.ErrNotFound),
		errors.Is(err, domainwallet.ErrWithdrawalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, adminapp.ErrSelfBlock),
		errors.Is(err, adminapp.ErrUnknownDecision):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainhotel.ErrInvalidState),
		errors.Is(err, domainbooking.ErrNotRefundable),
		errors.Is(err, domainwallet.ErrWithdrawalFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("admin request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ AdminHTTP = AdminHandler{}
