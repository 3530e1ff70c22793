package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shuttlego/internal/auth"
	"shuttlego/internal/clock"
	intconfig "shuttlego/internal/config"
	"shuttlego/internal/db"
	"shuttlego/internal/events"
	router "shuttlego/internal/http"
	"shuttlego/internal/http/handlers"
	"shuttlego/internal/http/middleware"
	"shuttlego/internal/localstore"
	"shuttlego/internal/metrics"
	"shuttlego/internal/mq"
	"shuttlego/internal/payments"
	"shuttlego/internal/realtime"
	"shuttlego/internal/repositories"
	"shuttlego/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	env := intconfig.LoadEnv()
	if err := env.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mysqlDB *sql.DB
	if env.HasPersistedBackend() {
		conn, err := intconfig.ConnectDB(ctx, env.DBDSN)
		if err != nil {
			logger.Error("mysql unavailable, persisted store disabled", slog.String("error", err.Error()))
		} else {
			if err := db.EnsureSchema(ctx, conn); err != nil {
				logger.Error("ensure schema failed", slog.String("error", err.Error()))
			}
			mysqlDB = conn
			defer mysqlDB.Close()
		}
	}
	if mysqlDB == nil && env.BookingMode == intconfig.BookingModePersisted {
		env.BookingMode = intconfig.BookingModeSimulated
	}

	localDB, err := intconfig.OpenLocalStore(env.LocalStorePath)
	if err != nil {
		logger.Error("open local store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer localDB.Close()
	local, err := localstore.NewSQLiteStore(ctx, localDB)
	if err != nil {
		logger.Error("init local store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	clk := clock.RealClock{}
	m := metrics.NewWithLogger(logger)
	defer m.Shutdown()
	m.StartDBStatsCollector(mysqlDB, 15*time.Second)

	bus := events.NewBus()
	defer bus.Close()

	jwtSvc := auth.NewJWTService(env.JWTSecret, time.Duration(env.JWTTTLMinutes)*time.Minute)

	// Stores
	simNotifications := repositories.NewSimulatedNotificationRepository(local)

	var (
		catalogStore      repositories.CatalogStore
		persistedBookings repositories.BookingStore
		persistedNotes    repositories.NotificationStore
		users             repositories.UserStore
		profiles          repositories.ProfileStore
		feedback          repositories.FeedbackStore

		primaryNotes repositories.NotificationStore = simNotifications
		idPrefix     = "sim-"
	)
	if mysqlDB != nil {
		catalogStore = repositories.CatalogRepository{DB: mysqlDB}
		persistedBookings = repositories.BookingRepository{DB: mysqlDB}
		persistedNotes = repositories.NotificationRepository{DB: mysqlDB}
		users = repositories.UserRepository{DB: mysqlDB}
		profiles = repositories.ProfileRepository{DB: mysqlDB}
		feedback = repositories.FeedbackRepository{DB: mysqlDB}
	} else {
		seed := repositories.DefaultCatalogSeed()
		if env.CatalogSeedFile != "" {
			if seed, err = repositories.LoadCatalogSeed(env.CatalogSeedFile); err != nil {
				logger.Error("load catalog seed", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
		catalogStore = repositories.NewMemoryCatalog(seed)
		users = repositories.NewSimulatedUserRepository(local)
		profiles = repositories.NewSimulatedProfileRepository(local)
		feedback = repositories.NewSimulatedFeedbackRepository(local)
	}
	simBookings := repositories.NewSimulatedBookingRepository(local, catalogStore)
	var primaryBookings repositories.BookingStore = simBookings
	if env.BookingMode == intconfig.BookingModePersisted {
		primaryBookings = persistedBookings
		primaryNotes = persistedNotes
		idPrefix = ""
	}

	var gateway payments.Gateway = payments.ManualGateway{Clock: clk}
	if env.PaymentProvider == intconfig.PaymentProviderStripe {
		gateway = payments.NewStripeGateway(env.StripeSecretKey)
	}

	// Services
	catalog := services.NewCatalogService(catalogStore, clk, m)
	if _, err := catalog.Load(ctx); err != nil {
		logger.Warn("initial catalog load failed", slog.String("error", err.Error()))
	}
	go catalog.RunRefresher(ctx, env.CatalogRefresh)

	views := services.BookingViewService{
		Simulated: simBookings,
		Persisted: persistedBookings,
		Catalog:   catalogStore,
		Events:    bus,
		Metrics:   m,
	}
	notifications := services.NotificationService{
		Simulated: simNotifications,
		Persisted: persistedNotes,
		Primary:   primaryNotes,
		Events:    bus,
		Clock:     clk,
		IDPrefix:  idPrefix,
	}

	hd := &handlers.Handler{
		Catalog:      catalog,
		Availability: services.AvailabilityService{Catalog: catalog},
		Bookings: services.BookingService{
			Bookings:      primaryBookings,
			Notifications: primaryNotes,
			Catalog:       catalogStore,
			Cache:         catalog,
			Payments:      gateway,
			Events:        bus,
			Metrics:       m,
			Clock:         clk,
			IDPrefix:      idPrefix,
		},
		Views:         views,
		Notifications: notifications,
		Dashboard:     services.DashboardService{Bookings: views, Notifications: notifications, Clock: clk},
		Docs:          services.DocsService{Bookings: views},
		Tracking: services.TrackingService{
			Store:  catalogStore,
			Cache:  catalog,
			Maps:   services.NewMapProvider(env.MapsAPIKey),
			Events: bus,
			Clock:  clk,
		},
		Auth:        services.AuthService{Users: users, Profiles: profiles, JWT: jwtSvc, Clock: clk},
		Profiles:    services.ProfileService{Profiles: profiles, Clock: clk},
		Settings:    services.SettingsService{Store: local},
		Feedback:    services.FeedbackService{Store: feedback, Clock: clk},
		DB:          mysqlDB,
		BookingMode: env.BookingMode,
	}

	// Realtime and event bridge
	hub := realtime.NewHub(jwtSvc.ExtractUserID, env.CORSAllowedOrigins, logger)
	go hub.Run(ctx)
	go hub.Pump(ctx, bus)

	if env.AMQPURL != "" {
		pub, err := mq.Dial(ctx, env.AMQPURL, logger)
		if err != nil {
			logger.Error("rabbitmq disabled", slog.String("error", err.Error()))
		} else {
			defer pub.Close()
			go pub.Bridge(ctx, bus)
		}
	}

	limiter := middleware.NewRateLimiter(env.BookingRate, clk)
	go limiter.RunCleanup(time.Minute)
	defer limiter.Stop()

	r := router.NewRouter(router.Deps{
		Env:     env,
		Handler: hd,
		JWT:     jwtSvc,
		Metrics: m,
		Hub:     hub,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			slog.String("addr", env.AppAddr),
			slog.String("booking_mode", env.BookingMode),
			slog.String("payments", gateway.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
