package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/app/commands"
	adminapp "staybook/internal/app/handlers/admin"
	availabilityapp "staybook/internal/app/handlers/availability"
	bookingapp "staybook/internal/app/handlers/booking"
	hotelsapp "staybook/internal/app/handlers/hotels"
	walletapp "staybook/internal/app/handlers/wallet"
	"staybook/internal/app/middleware"
	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/app/queries"
	authsvc "staybook/internal/app/services/auth"
	"staybook/internal/app/uow"
	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	"staybook/internal/infra/geo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	infraoutbox "staybook/internal/infra/outbox"
	"staybook/internal/infra/payment/vnpay"
	"staybook/internal/infra/security"
	"staybook/internal/infra/session"
	"staybook/internal/infra/storage/memory"
	"staybook/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	for _, worker := range app.workers {
		go func(run func(context.Context) error) {
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background worker stopped", "error", err)
			}
		}(worker)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Probes: app.probes}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	workers  []func(context.Context) error
	probes   map[string]func() error
	close    func()
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	app := application{
		probes: map[string]func() error{},
		close:  func() {},
	}

	var (
		uowFactory uow.Factory
		userRepo   domainuser.Repository
		box        appoutbox.Outbox
		idStore    middleware.IdempotencyStore
	)

	switch cfg.StorageMode {
	case "memory":
		factory := memory.NewFactory()
		uowFactory = factory
		userRepo = factory.UserRepo
		box = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
	default:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		factory := mongodb.NewFactory(client)
		if repo, ok := factory.UserRepo.(*mongodb.UserRepository); ok {
			if err := repo.EnsureIndexes(ctx); err != nil {
				logger.Warn("user index creation failed", "error", err)
			}
		}
		uowFactory = factory
		userRepo = factory.UserRepo
		store := infraoutbox.NewStore(client.DB)
		box = store
		idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		app.probes["mongo"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		app.close = func() { _ = client.Close(context.Background()) }

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, "staybook-outbox")
			if err != nil {
				return application{}, err
			}
			worker := &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
				Logger:      logger,
			}
			app.workers = append(app.workers, worker.Run)
		} else {
			logger.Warn("kafka brokers not configured, outbox events stay queued")
		}
	}

	var sessions domainauth.SessionStore
	if cfg.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return application{}, err
		}
		sessions = redisStore
		app.probes["redis"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisStore.Ping(pingCtx)
		}
	} else {
		logger.Warn("redis not configured, sessions are process-local")
		sessions = session.NewMemoryStore()
	}

	authService := &authsvc.Service{
		Users:      userRepo,
		Sessions:   sessions,
		Hub:        domainauth.NewHub(),
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	app.workers = append(app.workers, sessionAuditWorker(authService.Hub, logger))

	payments := &vnpay.Gateway{
		TmnCode:    cfg.VNPayTmnCode,
		HashSecret: cfg.VNPayHashSecret,
		Endpoint:   cfg.VNPayPayURL,
		ReturnURL:  cfg.VNPayReturnURL,
	}

	var geocoder policies.GeocoderPort
	if cfg.GeocoderURL != "" {
		geocoder = geo.NewNominatim(cfg.GeocoderURL)
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if cfg.S3AccessKey != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("photo storage unavailable", "error", err)
		} else {
			uploader = client
		}
	}

	encoder := appoutbox.JSONEventEncoder{}
	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	registerBookingHandlers(commandBus, queryBus, uowFactory, box, encoder, payments)
	registerHotelHandlers(commandBus, queryBus, uowFactory, box, encoder, geocoder)
	registerAdminHandlers(commandBus, queryBus, uowFactory, box, encoder)
	registerWalletHandlers(commandBus, queryBus, uowFactory)

	commandPipeline := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore),
		middleware.Transaction(uowFactory, nil),
	)
	queryPipeline := middleware.ChainQueries(queryBus)

	google := authsvc.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}

	app.handlers = ginserver.Handlers{
		Auth:    ginserver.AuthHandler{Service: authService, Google: google, Logger: logger},
		Hotel:   ginserver.HotelHandler{Queries: queryPipeline},
		Booking: ginserver.BookingHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Owner: ginserver.OwnerHandler{
			Commands: commandPipeline,
			Queries:  queryPipeline,
			Uploader: uploader,
			Logger:   logger,
		},
		Admin: ginserver.AdminHandler{
			Commands: commandPipeline,
			Queries:  queryPipeline,
			Auth:     authService,
			Logger:   logger,
		},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	return app, nil
}

// sessionAuditWorker drains session lifecycle changes from the auth hub into
// the log, giving operators a login/logout/revocation trail.
func sessionAuditWorker(hub *domainauth.Hub, logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		changes, cancel := hub.Subscribe()
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case change, ok := <-changes:
				if !ok {
					return nil
				}
				logger.Info("session "+string(change.Kind),
					"user_id", change.UserID, "roles", change.Roles)
			}
		}
	}
}

func registerBookingHandlers(cmds *commands.InMemoryBus, qrys *queries.InMemoryBus, factory uow.Factory, box appoutbox.Outbox, encoder appoutbox.EventEncoder, payments policies.PaymentsPort) {
	commands.RegisterHandler(cmds, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(cmds, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(cmds, bookingapp.SettlePaymentCommand{}.Key(), &bookingapp.SettlePaymentHandler{
		UoWFactory: factory,
		Payments:   payments,
		Outbox:     box,
		Encoder:    encoder,
	})
	queries.RegisterHandler(qrys, bookingapp.GuestBookingsQuery{}.Key(), &bookingapp.GuestBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, bookingapp.HotelBookingsQuery{}.Key(), &bookingapp.HotelBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, bookingapp.PaymentURLQuery{}.Key(), &bookingapp.PaymentURLHandler{
		UoWFactory: factory,
		Payments:   payments,
	})
}

func registerHotelHandlers(cmds *commands.InMemoryBus, qrys *queries.InMemoryBus, factory uow.Factory, box appoutbox.Outbox, encoder appoutbox.EventEncoder, geocoder policies.GeocoderPort) {
	commands.RegisterHandler(cmds, hotelsapp.SubmitHotelCommand{}.Key(), &hotelsapp.SubmitHotelHandler{
		UoWFactory: factory,
		Geocoder:   geocoder,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(cmds, hotelsapp.AttachPhotoCommand{}.Key(), &hotelsapp.AttachPhotoHandler{UoWFactory: factory})
	commands.RegisterHandler(cmds, hotelsapp.AddRoomCommand{}.Key(), &hotelsapp.AddRoomHandler{UoWFactory: factory})
	commands.RegisterHandler(cmds, hotelsapp.UpdateRoomCommand{}.Key(), &hotelsapp.UpdateRoomHandler{UoWFactory: factory})
	commands.RegisterHandler(cmds, hotelsapp.RemoveRoomCommand{}.Key(), &hotelsapp.RemoveRoomHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, hotelsapp.SearchCatalogQuery{}.Key(), &hotelsapp.SearchCatalogHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, hotelsapp.GetHotelQuery{}.Key(), &hotelsapp.GetHotelHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, hotelsapp.OwnerHotelsQuery{}.Key(), &hotelsapp.OwnerHotelsHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: factory})
}

func registerAdminHandlers(cmds *commands.InMemoryBus, qrys *queries.InMemoryBus, factory uow.Factory, box appoutbox.Outbox, encoder appoutbox.EventEncoder) {
	commands.RegisterHandler(cmds, adminapp.ApproveHotelCommand{}.Key(), &adminapp.ApproveHotelHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(cmds, adminapp.RejectHotelCommand{}.Key(), &adminapp.RejectHotelHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(cmds, adminapp.SetUserBlockedCommand{}.Key(), &adminapp.SetUserBlockedHandler{UoWFactory: factory})
	commands.RegisterHandler(cmds, adminapp.RefundBookingCommand{}.Key(), &adminapp.RefundBookingHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(cmds, adminapp.ReviewWithdrawalCommand{}.Key(), &adminapp.ReviewWithdrawalHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, adminapp.ListUsersQuery{}.Key(), &adminapp.ListUsersHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, adminapp.PendingHotelsQuery{}.Key(), &adminapp.PendingHotelsHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, adminapp.ListTransactionsQuery{}.Key(), &adminapp.ListTransactionsHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, adminapp.PendingWithdrawalsQuery{}.Key(), &adminapp.PendingWithdrawalsHandler{UoWFactory: factory})
}

func registerWalletHandlers(cmds *commands.InMemoryBus, qrys *queries.InMemoryBus, factory uow.Factory) {
	commands.RegisterHandler(cmds, walletapp.RequestWithdrawalCommand{}.Key(), &walletapp.RequestWithdrawalHandler{UoWFactory: factory})
	queries.RegisterHandler(qrys, walletapp.GetWalletQuery{}.Key(), &walletapp.GetWalletHandler{UoWFactory: factory})
}
