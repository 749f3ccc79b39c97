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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/application"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/captcha"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/config"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/database"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	leadEvents "github.com/Sparkle-Window-Cleaning/service-booking/internal/events"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/handler"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/health"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/kafka"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/logger"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/middleware"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/notifications"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/repository"
)

const serviceName = "service-booking"

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

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(&repository.LeadModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Connect to Redis for in-progress drafts
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Addr,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	defer func() { _ = redisClient.Close() }()

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	leadRepo := repository.NewGormLeadRepository(db)
	draftStore := repository.NewRedisDraftStore(redisClient, cfg.RedisConfig.DraftTTL)

	// Email is optional; without it leads are stored but nobody is emailed.
	var notifier application.Notifier
	if emailClient := notifications.NewEmailClient(cfg.EmailConfig); emailClient != nil {
		notifier = emailClient
	} else {
		log.Warn("email relay not configured, lead emails are disabled")
	}

	// Initialize application services
	quoteService := application.NewQuoteService(
		leadRepo,
		booking.NewStandardPricingStrategy(cfg.Pricing),
		booking.NewFormValidator(),
		captcha.NewVerifier(cfg.Captcha),
		notifier,
		kafkaProducer,
		log,
	)
	leadService := application.NewLeadService(leadRepo, notifier, kafkaProducer, log)
	analyticsService := application.NewAnalyticsService(kafkaProducer, log)
	draftService := application.NewDraftService(draftStore, log)

	// Initialize and start lead event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + serviceName
	leadConsumer := leadEvents.NewLeadEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		leadService,
		log,
	)
	defer func() { _ = leadConsumer.Close() }()

	go func() {
		log.Info("starting lead event consumer")
		if err := leadConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("lead event consumer error", zap.Error(err))
		}
	}()

	// Per-IP limiter for quote submissions
	submitLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	go sweepLimiter(ctx, submitLimiter)

	// Initialize HTTP handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	adminLeadHandler := handler.NewAdminLeadHandler(leadService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	draftHandler := handler.NewDraftHandler(draftService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(serviceName, map[string]health.Check{
		"postgres": func(ctx context.Context) error { return database.Ping(ctx, db) },
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	})
	healthHandler.RegisterRoutes(router)

	// Register routes
	quoteHandler.RegisterRoutes(&router.RouterGroup, submitLimiter.Middleware(log))
	analyticsHandler.RegisterRoutes(&router.RouterGroup)
	draftHandler.RegisterRoutes(&router.RouterGroup)
	adminLeadHandler.RegisterRoutes(&router.RouterGroup, middleware.AdminKeyMiddleware(cfg.AdminAPIKey))

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
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

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	closeDB(db, log)
	log.Info(serviceName + " stopped")
}

func sweepLimiter(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
