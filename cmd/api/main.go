package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/daftarapp/daftar-api/docs" // Swagger docs
	"github.com/daftarapp/daftar-api/internal/config"
	"github.com/daftarapp/daftar-api/internal/database"
	"github.com/daftarapp/daftar-api/internal/handlers"
	"github.com/daftarapp/daftar-api/internal/jobs"
	"github.com/daftarapp/daftar-api/internal/middleware"
	"github.com/daftarapp/daftar-api/internal/realtime"
	"github.com/daftarapp/daftar-api/internal/repository"
	"github.com/daftarapp/daftar-api/internal/services"
	"github.com/daftarapp/daftar-api/pkg/logger"
	"github.com/daftarapp/daftar-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// @title Daftar API
// @version 1.0
// @description REST API for the Daftar small-business bookkeeping service

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("Database migrations applied")

	// Initialize the change-event bus. With Redis configured, events fan out
	// across instances; without it, delivery is in-process only.
	var bus realtime.Bus
	if cfg.RedisAddr != "" {
		redisBus, err := realtime.NewRedisBus(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		bus = redisBus
		logger.Info("Change events on Redis", "addr", cfg.RedisAddr)
	} else {
		bus = realtime.NewMemoryBus()
		logger.Info("Change events in-process only")
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, bus, worker, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, repos)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, bus)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if err := bus.Close(); err != nil {
		logger.Error("Event bus close failed", "error", err)
	}

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/events"})))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", metrics.Handler())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Customers. Static route first so "all" is not matched as
			// :customer_id.
			customers := protected.Group("/customers")
			{
				customers.GET("", h.Customer.Index)
				customers.GET("/all", h.Customer.All)
				customers.POST("", h.Customer.Create)
				customers.GET("/:customer_id", h.Customer.Show)
				customers.PUT("/:customer_id", h.Customer.Update)
				customers.DELETE("/:customer_id", h.Customer.Destroy)
			}

			// Transactions
			transactions := protected.Group("/transactions")
			{
				transactions.GET("", h.Transaction.Index)
				transactions.GET("/recent", h.Transaction.Recent)
				transactions.GET("/types", h.Transaction.Types)
				transactions.POST("", h.Transaction.Create)
				transactions.GET("/:transaction_id", h.Transaction.Show)
				transactions.PUT("/:transaction_id", h.Transaction.Update)
				transactions.DELETE("/:transaction_id", h.Transaction.Destroy)
			}

			// Payments
			payments := protected.Group("/payments")
			{
				payments.GET("", h.Payment.Index)
				payments.POST("", h.Payment.Create)
				payments.GET("/:payment_id", h.Payment.Show)
				payments.PUT("/:payment_id", h.Payment.Update)
				payments.DELETE("/:payment_id", h.Payment.Destroy)
			}

			// Dashboard
			protected.GET("/dashboard/summary", h.Dashboard.Summary)
			protected.POST("/dashboard/refresh-balances", h.Dashboard.RefreshBalances)

			// Background worker status
			protected.GET("/jobs/status", h.Job.Status)

			// Reports
			protected.GET("/reports/customers/:customer_id/statement", h.Report.CustomerStatement)
			protected.GET("/reports/balances", h.Report.Balances)
			protected.GET("/reports/transactions", h.Report.Transactions)

			// Change-event stream
			protected.GET("/events", h.Events.Stream)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, repos *repository.Repositories) {
	// Rebuild the cached balance view every 15 minutes, once at startup so
	// fresh deployments have it populated.
	worker.ScheduleEveryImmediate(15*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing balance view...")
		return svcs.Dashboard.RefreshBalances(ctx)
	})

	// Compare the cached view against recomputed balances every hour.
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Verifying cached balances...")
		return svcs.Dashboard.VerifyBalances(ctx)
	})

	// Purge expired refresh tokens daily.
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Deleting expired refresh tokens...")
		return repos.RefreshToken.DeleteExpired(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
