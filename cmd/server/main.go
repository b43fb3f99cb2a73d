package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/lodge/backend/internal/application/billing"
	financeapp "github.com/lodge/backend/internal/application/finance"
	identityapp "github.com/lodge/backend/internal/application/identity"
	"github.com/lodge/backend/internal/infrastructure/auth"
	"github.com/lodge/backend/internal/infrastructure/config"
	"github.com/lodge/backend/internal/infrastructure/logger"
	"github.com/lodge/backend/internal/infrastructure/persistence"
	"github.com/lodge/backend/internal/infrastructure/printing"
	"github.com/lodge/backend/internal/infrastructure/storage"
	"github.com/lodge/backend/internal/interfaces/http/handler"
	"github.com/lodge/backend/internal/interfaces/http/middleware"
	"github.com/lodge/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Lodge Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Object storage backend
	objectStorage, err := newObjectStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	log.Info("Object storage initialized", zap.String("backend", cfg.Storage.Backend))

	// Receipt PDF renderer
	renderer := printing.NewChromedpReceiptRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Receipt.RenderTimeout,
		NoSandbox:      cfg.App.Env != "development",
		Logger:         log,
	})
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing receipt renderer", zap.Error(err))
		}
	}()

	// Initialize repositories
	residentRepo := persistence.NewGormResidentRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	expenseFileRepo := persistence.NewGormExpenseFileRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	billingTxScope := persistence.NewGormBillingTransactionScope(db.DB)
	financeTxScope := persistence.NewGormFinanceTransactionScope(db.DB)

	// Initialize application services
	accrualService := billingapp.NewAccrualService(billingTxScope, residentRepo)
	ledgerService := billingapp.NewLedgerService(
		billingTxScope,
		ledgerRepo,
		renderer,
		objectStorage,
		cfg.Receipt.FacilityName,
		cfg.Storage.ReceiptsBucket,
	)
	receiptService := billingapp.NewReceiptService(receiptRepo, objectStorage, cfg.Storage.SignedURLTTL)
	residentService := billingapp.NewResidentService(residentRepo)
	expenseService := financeapp.NewExpenseService(
		financeTxScope,
		expenseRepo,
		expenseFileRepo,
		objectStorage,
		cfg.Storage.ExpensesBucket,
		cfg.Storage.SignedURLTTL,
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)

	// Login attempts are rate limited to slow down credential guessing
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, loginLimiter.Middleware())
	residentHandler := handler.NewResidentHandler(residentService, accrualService, ledgerService)
	paymentHandler := handler.NewPaymentHandler(ledgerService, receiptService, accrualService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	healthHandler := handler.NewHealthHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, security headers, CORS, body size limit, JWT auth.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/login",
		},
		Logger: log,
	}))

	// Root-level health check for load balancers
	engine.GET("/health", healthHandler.Health)

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(healthHandler).
		Register(authHandler).
		Register(residentHandler).
		Register(paymentHandler).
		Register(expenseHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage builds the object storage backend selected in config
func newObjectStorage(cfg *config.Config, log *zap.Logger) (storage.ObjectStorage, error) {
	switch cfg.Storage.Backend {
	case "supabase":
		return storage.NewSupabaseStorage(&cfg.Storage.Supabase, storage.WithSupabaseLogger(log))
	case "s3":
		return storage.NewS3ObjectStorage(&cfg.Storage.S3, storage.WithS3Logger(log))
	default:
		log.Warn("Using in-memory stub object storage, uploads will not survive restarts")
		return storage.NewStubObjectStorage(), nil
	}
}
