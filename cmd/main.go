package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-storefront/configs"
	"food-storefront/internal/gateway"
	"food-storefront/internal/handlers"
	"food-storefront/internal/middleware"
	"food-storefront/internal/models"
	"food-storefront/internal/repositories"
	"food-storefront/internal/services"
	"food-storefront/pkg/auth"
	"food-storefront/pkg/cache"
	"food-storefront/pkg/database"
	"food-storefront/pkg/messaging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	config, err := configs.LoadConfig()
	if err != nil {
		panic(err)
	}

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	logger := newLogger(config.Server.Mode)
	defer logger.Sync()

	// Initialize database connections
	db, err := database.NewDatabase(config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName, logger)
	if err != nil {
		logger.Fatalw("failed to connect to databases", "error", err)
	}
	defer db.Close()

	// Auto-migrate PostgreSQL tables
	if err := db.Postgres.AutoMigrate(&models.OrderReceipt{}); err != nil {
		logger.Fatalw("failed to migrate database", "error", err)
	}

	// Redis is optional; without it every catalog request goes to the gateway
	var catalogCache services.CatalogCache
	redisCache, err := cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB)
	if err != nil {
		logger.Warnw("Redis unavailable, catalog caching disabled", "error", err)
	} else {
		defer redisCache.Close()
		catalogCache = redisCache
	}

	publisher := newPublisher(config.Events, logger)
	defer publisher.Close()

	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours)

	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL: config.Gateway.BaseURL,
		APIKey:  config.Gateway.APIKey,
		Timeout: config.Gateway.Timeout,
	})

	// Initialize repositories
	receiptRepo := repositories.NewOrderReceiptRepository(db.Postgres)
	var cuisineRepo repositories.CuisineRepository
	if db.MongoDB != nil {
		cuisineRepo = repositories.NewCuisineRepository(db.MongoDB)
	}

	// Initialize services
	catalogService := services.NewCatalogService(gatewayClient, cuisineRepo, catalogCache, services.CatalogOptions{
		DefaultPage:  config.Catalog.DefaultPage,
		DefaultCount: config.Catalog.DefaultCount,
		CacheTTL:     config.Catalog.CacheTTL,
	}, logger.Named("catalog"))

	cartService := services.NewCartService(catalogService, gatewayClient, receiptRepo, publisher, jwtManager, services.CartOptions{
		Topic:         config.Events.Topic,
		SubmitTimeout: config.Gateway.SubmitTimeout,
	}, logger.Named("cart"))

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go cartService.RunSweeper(sweepCtx)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(cartService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)

	// Initialize Gin router
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger.Named("http")))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "food-storefront",
		})
	})

	// API routes
	api := router.Group("/api/v1")

	sessionHandler.RegisterRoutes(api, authMiddleware)
	catalogHandler.RegisterRoutes(api)
	cartHandler.RegisterRoutes(api, authMiddleware)

	srv := &http.Server{
		Addr:    ":" + config.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infow("server starting", "port", config.Server.Port, "gateway", config.Gateway.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorw("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(mode string) *zap.SugaredLogger {
	var (
		base *zap.Logger
		err  error
	)
	if mode == gin.DebugMode {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return base.Sugar()
}

func newPublisher(cfg configs.EventsConfig, logger *zap.SugaredLogger) messaging.Publisher {
	switch cfg.Broker {
	case "kafka":
		logger.Infow("publishing order events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.Topic)
		return messaging.NewKafkaProducer(cfg.KafkaBrokers)
	case "rabbitmq":
		publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.Warnw("RabbitMQ unavailable, order events disabled", "error", err)
			return messaging.NopPublisher{}
		}
		logger.Infow("publishing order events to RabbitMQ", "topic", cfg.Topic)
		return publisher
	default:
		logger.Infow("order events disabled", "broker", cfg.Broker)
		return messaging.NopPublisher{}
	}
}
