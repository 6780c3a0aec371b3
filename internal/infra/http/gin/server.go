package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type HotelHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	Calendar(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	MyBookings(c *gin.Context)
	PaymentURL(c *gin.Context)
	PaymentReturn(c *gin.Context)
}

type OwnerHTTP interface {
	Hotels(c *gin.Context)
	SubmitHotel(c *gin.Context)
	UploadPhoto(c *gin.Context)
	AddRoom(c *gin.Context)
	UpdateRoom(c *gin.Context)
	RemoveRoom(c *gin.Context)
	HotelBookings(c *gin.Context)
	Wallet(c *gin.Context)
	RequestWithdrawal(c *gin.Context)
}

type AdminHTTP interface {
	ListUsers(c *gin.Context)
	BlockUser(c *gin.Context)
	UnblockUser(c *gin.Context)
	PendingHotels(c *gin.Context)
	ApproveHotel(c *gin.Context)
	RejectHotel(c *gin.Context)
	Transactions(c *gin.Context)
	RefundBooking(c *gin.Context)
	PendingWithdrawals(c *gin.Context)
	ReviewWithdrawal(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Hotel          HotelHTTP
	Booking        BookingHTTP
	Owner          OwnerHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
		api.GET("/auth/google", h.Auth.GoogleLogin)
		api.GET("/auth/google/callback", h.Auth.GoogleCallback)
	}
	if h.Hotel != nil {
		api.GET("/hotels", h.Hotel.Catalog)
		api.GET("/hotels/:id", h.Hotel.Get)
		api.GET("/hotels/:id/rooms/:roomID/calendar", h.Hotel.Calendar)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/bookings/:id/payment-url", h.Booking.PaymentURL)
		api.GET("/me/bookings", h.Booking.MyBookings)
		api.GET("/payments/vnpay/return", h.Booking.PaymentReturn)
	}
	if h.Owner != nil {
		ownerGroup := api.Group("/owner")
		ownerGroup.GET("/hotels", h.Owner.Hotels)
		ownerGroup.POST("/hotels", h.Owner.SubmitHotel)
		ownerGroup.POST("/hotels/:id/photos", h.Owner.UploadPhoto)
		ownerGroup.POST("/hotels/:id/rooms", h.Owner.AddRoom)
		ownerGroup.PUT("/hotels/:id/rooms/:roomID", h.Owner.UpdateRoom)
		ownerGroup.DELETE("/hotels/:id/rooms/:roomID", h.Owner.RemoveRoom)
		ownerGroup.GET("/hotels/:id/bookings", h.Owner.HotelBookings)
		ownerGroup.GET("/wallet", h.Owner.Wallet)
		ownerGroup.POST("/wallet/withdrawals", h.Owner.RequestWithdrawal)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.GET("/hotels/pending", h.Admin.PendingHotels)
		adminGroup.POST("/hotels/:id/approve", h.Admin.ApproveHotel)
		adminGroup.POST("/hotels/:id/reject", h.Admin.RejectHotel)
		adminGroup.GET("/users", h.Admin.ListUsers)
		adminGroup.POST("/users/:id/block", h.Admin.BlockUser)
		adminGroup.POST("/users/:id/unblock", h.Admin.UnblockUser)
		adminGroup.GET("/transactions", h.Admin.Transactions)
		adminGroup.POST("/bookings/:id/refund", h.Admin.RefundBooking)
		adminGroup.GET("/withdrawals", h.Admin.PendingWithdrawals)
		adminGroup.POST("/withdrawals/:id/review", h.Admin.ReviewWithdrawal)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = []string{"*"}
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
