package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/automac/dealership-backend/internal/config"
	"github.com/automac/dealership-backend/internal/database"
	"github.com/automac/dealership-backend/internal/handlers"
	"github.com/automac/dealership-backend/internal/logger"
	"github.com/automac/dealership-backend/internal/middleware"
	"github.com/automac/dealership-backend/internal/services"
)

func main() {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get database instance")
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Redis is optional; without it facets are computed per request
	if err := services.InitRedis(cfg.RedisURL); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, facet caching disabled")
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(cfg.Storage); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	if !services.IsUsingS3() {
		log.Warn().Msg("AWS S3 not configured, using local file storage")
	}

	// Owner dashboard event hub
	hub := services.NewHub(log)
	go hub.Run()

	notifier := services.NewNotifier(cfg.Notify, hub, log)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Locally stored car images
	r.Static("/uploads", cfg.Storage.UploadDir)

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db, cfg.JWTSecret))
		}

		cars := api.Group("/cars")
		{
			cars.GET("", handlers.ListCars(db))
			cars.GET("/latest", handlers.LatestCars(db))
			cars.GET("/:id", handlers.GetCar(db))
			cars.POST("/:id/bookings", handlers.CreateBooking(db, notifier))
		}

		api.GET("/catalog/options", handlers.CatalogOptions())

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(cfg.JWTSecret), handlers.WebSocketHandler(hub))

		// Protected routes
		owner := api.Group("/owner")
		owner.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			owner.GET("/dashboard", handlers.OwnerDashboard(db))

			ownerCars := owner.Group("/cars")
			{
				ownerCars.GET("", handlers.GetOwnerCars(db))
				ownerCars.POST("", handlers.CreateCar(db))
				ownerCars.PUT("/:id", handlers.UpdateCar(db))
				ownerCars.POST("/:id/sold", handlers.MarkCarSold(db))
				ownerCars.POST("/:id/available", handlers.MarkCarAvailable(db))
				ownerCars.GET("/:id/images", handlers.ListCarImages(db))
				ownerCars.PUT("/:id/images/:imageId/main", handlers.SetMainImage(db))
				ownerCars.DELETE("/:id/images/:imageId", handlers.DeleteCarImage(db))
			}

			bookings := owner.Group("/bookings")
			{
				bookings.GET("", handlers.GetOwnerBookings(db))
				bookings.PATCH("/:id/status", handlers.UpdateBookingStatus(db, notifier))
				bookings.DELETE("/:id", handlers.DeleteBooking(db))
			}
		}
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("starting dealership api")

	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
