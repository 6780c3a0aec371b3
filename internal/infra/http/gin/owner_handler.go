package ginserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	bookingapp "staybook/internal/app/handlers/booking"
	hotelsapp "staybook/internal/app/handlers/hotels"
	walletapp "staybook/internal/app/handlers/wallet"
	"staybook/internal/app/queries"
	domainhotel "staybook/internal/domain/hotel"
	domainwallet "staybook/internal/domain/wallet"
	"staybook/internal/infra/storage/s3"
)

const maxHotelPhotoSizeBytes = int64(8 << 20)

// OwnerHandler covers everything behind the /owner group: hotel submissions,
// room management, photos, the booking ledger and the wallet.
type OwnerHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Uploader s3.Uploader
	Logger   *slog.Logger
}

type submitHotelRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Line1       string   `json:"line1"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Amenities   []string `json:"amenities"`
}

type roomRequest struct {
	Name        string `json:"name"`
	NightlyRate int64  `json:"nightly_rate"`
	Currency    string `json:"currency"`
	Capacity    int    `json:"capacity"`
}

type withdrawalRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	BankAccount string `json:"bank_account"`
	BankName    string `json:"bank_name"`
}

func (h OwnerHandler) Hotels(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	query := hotelsapp.OwnerHotelsQuery{OwnerID: owner.ID}
	result, err := queries.Ask[hotelsapp.OwnerHotelsQuery, []dto.HotelDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

func (h OwnerHandler) SubmitHotel(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	var req submitHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := hotelsapp.SubmitHotelCommand{
		HotelID:     uuid.NewString(),
		OwnerID:     owner.ID,
		Name:        req.Name,
		Description: req.Description,
		Line1:       req.Line1,
		City:        req.City,
		Country:     req.Country,
		Amenities:   req.Amenities,
	}
	result, err := commands.Dispatch[hotelsapp.SubmitHotelCommand, dto.HotelDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h OwnerHandler) UploadPhoto(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage unavailable"})
		return
	}
	hotelID := strings.TrimSpace(c.Param("id"))
	if hotelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hotel id is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxHotelPhotoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file must be between 1 byte and %d MB", maxHotelPhotoSizeBytes/1024/1024)})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxHotelPhotoSizeBytes+1024))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read uploaded file"})
		return
	}

	contentType := http.DetectContentType(data)
	if !isAllowedImageType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported content type: %s", contentType)})
		return
	}

	objectKey := buildPhotoObjectKey(hotelID, fileHeader.Filename, contentType)
	url, err := h.Uploader.Upload(c.Request.Context(), objectKey, bytes.NewReader(data), contentType)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("photo upload failed", "error", err, "hotel_id", hotelID)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "photo storage rejected the upload"})
		return
	}

	cmd := hotelsapp.AttachPhotoCommand{HotelID: hotelID, OwnerID: owner.ID, PhotoURL: url}
	if _, err := commands.Dispatch[hotelsapp.AttachPhotoCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h OwnerHandler) AddRoom(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := hotelsapp.AddRoomCommand{
		HotelID:     c.Param("id"),
		OwnerID:     owner.ID,
		RoomID:      uuid.NewString(),
		Name:        req.Name,
		NightlyRate: req.NightlyRate,
		Currency:    req.Currency,
		Capacity:    req.Capacity,
	}
	result, err := commands.Dispatch[hotelsapp.AddRoomCommand, dto.RoomDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h OwnerHandler) UpdateRoom(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := hotelsapp.UpdateRoomCommand{
		HotelID:     c.Param("id"),
		OwnerID:     owner.ID,
		RoomID:      c.Param("roomID"),
		Name:        req.Name,
		NightlyRate: req.NightlyRate,
		Currency:    req.Currency,
		Capacity:    req.Capacity,
	}
	result, err := commands.Dispatch[hotelsapp.UpdateRoomCommand, dto.RoomDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerHandler) RemoveRoom(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	cmd := hotelsapp.RemoveRoomCommand{
		HotelID: c.Param("id"),
		OwnerID: owner.ID,
		RoomID:  c.Param("roomID"),
	}
	if _, err := commands.Dispatch[hotelsapp.RemoveRoomCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h OwnerHandler) HotelBookings(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	query := bookingapp.HotelBookingsQuery{HotelID: c.Param("id"), OwnerID: owner.ID}
	result, err := queries.Ask[bookingapp.HotelBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerHandler) Wallet(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	query := walletapp.GetWalletQuery{OwnerID: owner.ID}
	result, err := queries.Ask[walletapp.GetWalletQuery, dto.WalletView](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerHandler) RequestWithdrawal(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := walletapp.RequestWithdrawalCommand{
		OwnerID:      owner.ID,
		WithdrawalID: uuid.NewString(),
		Amount:       req.Amount,
		Currency:     req.Currency,
		BankAccount:  req.BankAccount,
		BankName:     req.BankName,
	}
	result, err := commands.Dispatch[walletapp.RequestWithdrawalCommand, dto.WithdrawalSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h OwnerHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainhotel.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainhotel.ErrNotFound),
		errors.Is(err, domainhotel.ErrRoomNotFound),
		errors.Is(err, domainwallet.ErrWithdrawalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainhotel.ErrNameRequired),
		errors.Is(err, domainhotel.ErrAddressRequired),
		errors.Is(err, domainhotel.ErrRoomName),
		errors.Is(err, domainhotel.ErrRoomRate),
		errors.Is(err, domainhotel.ErrRoomCapacity),
		errors.Is(err, domainwallet.ErrInvalidAmount),
		errors.Is(err, domainwallet.ErrBankDetailsRequired),
		errors.Is(err, hotelsapp.ErrUnsupportedCurrency):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainwallet.ErrInsufficientFunds):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			fields := []any{"error", err, "path", c.FullPath()}
			if owner, ok := currentPrincipal(c); ok {
				fields = append(fields, "owner_id", owner.ID)
			}
			h.Logger.Error("owner request failed", fields...)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}

func buildPhotoObjectKey(hotelID, filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/webp":
			ext = ".webp"
		case "image/gif":
			ext = ".gif"
		}
	}
	return fmt.Sprintf("hotels/%s/%s%s", hotelID, uuid.NewString(), ext)
}

var _ OwnerHTTP = OwnerHandler{}
