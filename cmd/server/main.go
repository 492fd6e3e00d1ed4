package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edutrack/edutrack-api/internal/config"
	"github.com/edutrack/edutrack-api/internal/handler"
	"github.com/edutrack/edutrack-api/internal/middleware"
	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/internal/ws"
	"github.com/edutrack/edutrack-api/migrations"
	"github.com/edutrack/edutrack-api/pkg/auth"
	"github.com/edutrack/edutrack-api/pkg/mailer"
	"github.com/edutrack/edutrack-api/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           EduTrack API
// @version         1.0
// @description     Educational content analytics dashboard: OTP email auth, educator & YouTube video catalog, engagement stats, live updates.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@edutrack.local

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting EduTrack API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(
			&model.Educator{},
			&model.Video{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== OTP Delivery ====================
	var sender mailer.Sender
	var devSender *mailer.DevSender
	if cfg.OTP.DevMode {
		devSender = mailer.NewDevSender()
		sender = devSender
		log.Println("🔐 OTP dev mode: codes logged and exposed at /api/v1/dev/otp")
	} else {
		sender = mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
		log.Printf("📧 SMTP configured: %s:%s", cfg.SMTP.Host, cfg.SMTP.Port)
	}

	// ==================== Initialize Layers ====================
	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// OTP store: in-process by default, Redis when running multiple replicas
	var otpStore repository.OTPStore
	if cfg.OTP.UseRedis {
		otpStore = repository.NewRedisOTPStore(rdb)
		log.Println("🗄️  OTP store: redis")
	} else {
		otpStore = repository.NewMemoryOTPStore()
		log.Println("🗄️  OTP store: memory")
	}

	// Repositories
	educatorRepo := repository.NewEducatorRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	// YouTube Data API
	var fetcher service.MetadataFetcher
	if cfg.YouTube.APIKey != "" {
		ytClient, err := service.NewYouTubeClient(ctx, cfg.YouTube.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to create YouTube client: %v", err)
		}
		fetcher = ytClient
		log.Println("✅ YouTube Data API configured")
	} else {
		fetcher = service.UnavailableFetcher{}
		log.Println("⚠️  YOUTUBE_API_KEY not set (video metadata lookups disabled)")
	}

	// WebSocket Hub (with Redis Pub/Sub for horizontal scaling)
	hub := ws.NewHub(rdb)

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Services
	authService := service.NewAuthService(otpStore, service.NewGenerator(), sender, jwtManager, rdb, cfg.OTP)
	catalogService := service.NewCatalogService(educatorRepo, videoRepo, fetcher, hub)
	statsService := service.NewStatsService(educatorRepo, videoRepo)

	// Expired-entry sweeper
	sweeper := service.NewSweeper(otpStore, cfg.OTP.SweepInterval)
	go sweeper.Run(hubCtx)

	// MinIO Storage
	var avatarStorage storage.Storage
	minioStorage, err := storage.NewMinIO(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Printf("⚠️  MinIO not available: %v (avatar upload disabled)", err)
	} else {
		avatarStorage = minioStorage
		log.Println("✅ Connected to MinIO")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	educatorHandler := handler.NewEducatorHandler(catalogService, avatarStorage)
	videoHandler := handler.NewVideoHandler(catalogService)
	statsHandler := handler.NewStatsHandler(statsService)
	wsHandler := handler.NewWSHandler(hub, jwtManager)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Swagger configuration
	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")

	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "edutrack-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/request-otp", authHandler.RequestOTP)
			authGroup.POST("/verify-otp", authHandler.VerifyOTP)
			authGroup.POST("/resend-otp", authHandler.ResendOTP)
		}

		// Dev-only OTP side channel
		if cfg.OTP.DevMode && devSender != nil {
			devHandler := handler.NewDevHandler(devSender)
			api.GET("/dev/otp", devHandler.RecentOTPs)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			// Auth
			protected.POST("/auth/logout", authHandler.Logout)

			// Educators
			protected.GET("/educators", educatorHandler.List)
			protected.POST("/educators", educatorHandler.Create)
			protected.GET("/educators/:id", educatorHandler.Get)
			protected.PUT("/educators/:id", educatorHandler.Update)
			protected.DELETE("/educators/:id", educatorHandler.Delete)
			protected.GET("/educators/:id/videos", educatorHandler.Videos)

			// Videos
			protected.GET("/videos", videoHandler.List)
			protected.POST("/videos", videoHandler.Add)
			protected.POST("/videos/:id/refresh", videoHandler.Refresh)
			protected.DELETE("/videos/:id", videoHandler.Delete)

			// Stats & exports
			protected.GET("/stats/overview", statsHandler.Overview)
			protected.GET("/stats/educators", statsHandler.PerEducator)
			protected.GET("/stats/export/csv", statsHandler.ExportCSV)
			protected.GET("/stats/export/pdf", statsHandler.ExportPDF)
		}
	}

	// WebSocket endpoint (auth via query parameter)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 EduTrack API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("🔌 WebSocket: ws://0.0.0.0:%s/ws?token=<jwt>", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	hubCancel()
	log.Println("✅ Server exited gracefully")
}
