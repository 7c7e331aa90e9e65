package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/obeddx/notarichCafe-sub002/events"
	cataloghttp "github.com/obeddx/notarichCafe-sub002/internal/catalog/delivery/http"
	catalogrepo "github.com/obeddx/notarichCafe-sub002/internal/catalog/repository"
	"github.com/obeddx/notarichCafe-sub002/internal/inventory"
	inventoryrepo "github.com/obeddx/notarichCafe-sub002/internal/inventory/repository"
	inventorycommand "github.com/obeddx/notarichCafe-sub002/internal/inventory/usecase/command"
	"github.com/obeddx/notarichCafe-sub002/internal/order"
	orderrepo "github.com/obeddx/notarichCafe-sub002/internal/order/repository"
	ordercommand "github.com/obeddx/notarichCafe-sub002/internal/order/usecase/command"
	paymenthttp "github.com/obeddx/notarichCafe-sub002/internal/payment/delivery/http"
	"github.com/obeddx/notarichCafe-sub002/internal/payment/gateway"
	"github.com/obeddx/notarichCafe-sub002/internal/reporting/cache"
	reportinghttp "github.com/obeddx/notarichCafe-sub002/internal/reporting/delivery/http"
	reportingrepo "github.com/obeddx/notarichCafe-sub002/internal/reporting/repository"
	reservationhttp "github.com/obeddx/notarichCafe-sub002/internal/reservation/delivery/http"
	reservationrepo "github.com/obeddx/notarichCafe-sub002/internal/reservation/repository"
	reservationcommand "github.com/obeddx/notarichCafe-sub002/internal/reservation/usecase/command"
	userhttp "github.com/obeddx/notarichCafe-sub002/internal/user/delivery/http"
	userrepo "github.com/obeddx/notarichCafe-sub002/internal/user/repository"
	"github.com/obeddx/notarichCafe-sub002/pkg/database"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
	"github.com/obeddx/notarichCafe-sub002/pkg/middleware"
	"github.com/obeddx/notarichCafe-sub002/pkg/tracing"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "cafe-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting cafe service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Connect to database
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "cafedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
		TimeZone: getEnv("DB_TIMEZONE", "Asia/Jakarta"),
	}
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	ledgerRepo := inventoryrepo.NewGormLedgerRepository(db)
	menuRepo := catalogrepo.NewGormMenuRepository(db)
	orderRepo := orderrepo.NewGormOrderRepository(db)
	reservationRepo := reservationrepo.NewGormReservationRepository(db)
	userRepo := userrepo.NewGormUserRepository(db)
	for _, migrate := range []func() error{
		ledgerRepo.AutoMigrate,
		menuRepo.AutoMigrate,
		orderRepo.AutoMigrate,
		reservationRepo.AutoMigrate,
		userRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	// Event broadcaster, optionally mirrored to Kafka
	broadcaster := events.NewBroadcaster(0)
	defer broadcaster.Close()
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		mirror, err := events.NewKafkaMirror(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable - events stay in-process only")
		} else {
			broadcaster = broadcaster.WithKafkaMirror(mirror)
			logger.Logger.Info().Str("brokers", brokers).Msg("Kafka event mirror enabled")
		}
	}

	// Redis report cache, disabled when unreachable
	var redisClient *redis.Client
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisClient = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("redis_addr", redisAddr).
			Msg("Failed to connect to Redis - report caching disabled")
		redisClient = nil
	} else {
		logger.Logger.Info().Str("redis_addr", redisAddr).Msg("Connected to Redis")
	}

	// Handlers
	inventoryHandler, err := inventory.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}
	orderHandler, err := order.InitializeHTTPHandler(db, broadcaster)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize order handler")
	}
	catalogHandler := cataloghttp.NewCatalogHandler(
		menuRepo,
		catalogrepo.NewGormReferenceRepository(db),
		catalogrepo.NewGormIngredientSource(db),
	)
	reservationHandler := reservationhttp.NewReservationHandler(
		reservationRepo,
		reservationcommand.NewCreateReservationHandler(reservationRepo, orderRepo, broadcaster),
		reservationcommand.NewSweepExpiredHandler(reservationRepo, orderRepo, broadcaster),
	)
	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:   getEnv("PAYMENT_GATEWAY_URL", "https://app.sandbox.midtrans.com"),
		ServerKey: getEnv("PAYMENT_SERVER_KEY", ""),
	})
	paymentHandler := paymenthttp.NewPaymentHandler(
		gatewayClient,
		orderRepo,
		ordercommand.NewConfirmPaymentHandler(orderRepo, broadcaster),
		ordercommand.NewFinalizeOrderHandler(orderRepo, broadcaster),
	)
	userHandler := userhttp.NewUserHandler(userRepo)
	reportingHandler := reportinghttp.NewReportingHandler(
		reportingrepo.NewGormHistoryRepository(db),
		cache.NewReportCache(redisClient, 0),
	)

	// Router
	router := mux.NewRouter()
	router.NotFoundHandler = jsonError(http.StatusNotFound, "Resource not found")
	router.MethodNotAllowedHandler = jsonError(http.StatusMethodNotAllowed, "Method not allowed")
	router.Use(middleware.Logging)

	inventoryHandler.RegisterRoutes(router)
	inventoryHandler.RegisterHealthCheck(router, sqlDB)
	catalogHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	reservationHandler.RegisterRoutes(router)
	paymentHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)
	reportingHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/api/events", events.SSEHandler(broadcaster)).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Background jobs
	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	if getEnv("ENABLE_ROLLOVER", "true") == "true" {
		go runRollover(jobsCtx, inventorycommand.NewRolloverHandler(ledgerRepo))
	}
	if getEnv("ENABLE_SWEEP", "true") == "true" {
		go runSweep(jobsCtx, reservationcommand.NewSweepExpiredHandler(reservationRepo, orderRepo, broadcaster))
	}

	// HTTP server
	port := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: otelhttp.NewHandler(c.Handler(router), "http-server"),
	}

	go func() {
		logger.Logger.Info().Str("port", port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	stopJobs()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced shutdown")
	}
}

// runRollover archives daily stock snapshots shortly after midnight.
func runRollover(ctx context.Context, handler *inventorycommand.RolloverHandler) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			result, err := handler.Handle(inventorycommand.RolloverCommand{AsOf: now})
			if err != nil {
				logger.Logger.Error().Err(err).Msg("Daily rollover failed")
				continue
			}
			logger.Logger.Info().
				Int("ingredients", result.IngredientsRolled).
				Int("gudang", result.GudangRolled).
				Msg("Daily rollover finished")
		}
	}
}

// runSweep completes lapsed reservations once a minute.
func runSweep(ctx context.Context, handler *reservationcommand.SweepExpiredHandler) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := handler.Handle(now); err != nil {
				logger.Logger.Error().Err(err).Msg("Reservation sweep failed")
			}
		}
	}
}

func jsonError(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"success":false,"error":"` + message + `"}`))
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
