package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/cache"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/config"
	paymentEvents "github.com/Kilat-Pet-Delivery/service-pethotel/internal/events"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/database"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/health"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/kafka"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/logger"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/middleware"
)

const serviceName = "service-pethotel"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.HotelModel{},
			&repository.RoomModel{},
			&repository.RoomPhotoModel{},
			&repository.PetModel{},
			&repository.BookingModel{},
			&repository.ServiceHistoryModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL)

	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// User cache; runs without Redis when no address is configured
	var userCache cache.UserCache = cache.NopUserCache{}
	if cfg.RedisConfig.Addr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisConfig, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		userCache = cache.NewRedisUserCache(redisClient, log)
	} else {
		log.Warn("REDIS_ADDR not set, user cache disabled")
	}

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	hotelRepo := repository.NewGormHotelRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	roomPhotoRepo := repository.NewGormRoomPhotoRepository(db)
	petRepo := repository.NewGormPetRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	// Media stores
	paymentStore := media.NewStore(cfg.PaymentDir, log.Named("payment-store"))
	roomPhotoStore := media.NewStore(cfg.RoomPhotoDir, log.Named("room-photo-store"))

	// Initialize application services
	userService := application.NewUserService(userRepo, userCache, jwtManager, log)
	hotelService := application.NewHotelService(hotelRepo, jwtManager, log)
	roomService := application.NewRoomService(roomRepo, roomPhotoRepo, hotelRepo, bookingRepo, roomPhotoStore, log)
	roomPhotoService := application.NewRoomPhotoService(roomPhotoRepo, roomRepo, hotelRepo, roomPhotoStore, log)
	petService := application.NewPetService(petRepo, userService, log)
	bookingService := application.NewBookingService(
		bookingRepo,
		userService,
		hotelRepo,
		roomRepo,
		petRepo,
		paymentStore,
		kafkaProducer,
		log,
	)

	// Start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "pethotel-service"
	paymentConsumer := paymentEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = 4 * media.MaxFileSize

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, log))

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	// Register routes
	handler.NewUserHandler(userService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewHotelHandler(hotelService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewRoomHandler(roomService, roomPhotoService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewPetHandler(petService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
