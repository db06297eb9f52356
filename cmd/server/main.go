package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/application/recurring"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/scheduler"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
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

	log.Info("Starting Retail POS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Occurrence reservations live in Redis so concurrent runs across
	// processes stay deduplicated; a single-node deployment can fall back
	// to the in-memory store when Redis is unreachable.
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(
		cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Initialize repositories
	templateRepo := persistence.NewGormRecurringTemplateRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	generationUoW := persistence.NewGormGenerationUnitOfWork(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	categoryLookup := persistence.NewGormCategoryLookup(db.DB)
	userLookup := persistence.NewGormUserLookup(db.DB)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	generatedExpenseHandler := recurring.NewGeneratedExpenseHandler(log)
	eventBus.Subscribe(generatedExpenseHandler)

	log.Info("Event handlers registered",
		zap.Strings("expense_generated_events", generatedExpenseHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	templateService := recurring.NewTemplateService(templateRepo, categoryLookup, userLookup, eventBus, log)
	processor := recurring.NewTenantProcessor(
		templateRepo,
		expenseRepo,
		generationUoW,
		idempotencyStore,
		cfg.Recurring.IdempotencyTTL,
		eventBus,
		log,
	)
	orchestrator := recurring.NewOrchestrator(tenantRepo, processor, recurring.OrchestratorConfig{
		TenantConcurrency: cfg.Recurring.TenantConcurrency,
		TenantTimeout:     cfg.Recurring.TenantTimeout,
	}, log)

	// Scheduled daily generation run
	if cfg.Recurring.Enabled {
		trigger := scheduler.NewDailyTrigger(
			scheduler.DailyTriggerConfig{
				RunHour:       cfg.Recurring.DailyRunHour,
				RunMinute:     cfg.Recurring.DailyRunMinute,
				Timezone:      cfg.Recurring.Timezone,
				CheckInterval: cfg.Recurring.CheckInterval,
			},
			scheduler.RunnerFunc(func(ctx context.Context, asOf time.Time) error {
				_, err := orchestrator.Run(ctx, asOf)
				return err
			}),
			nil, // system clock
			log,
		)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start recurring expense trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping recurring expense trigger", zap.Error(err))
			}
		}()
		log.Info("Recurring expense trigger started",
			zap.Int("run_hour", cfg.Recurring.DailyRunHour),
			zap.Int("run_minute", cfg.Recurring.DailyRunMinute),
			zap.String("timezone", cfg.Recurring.Timezone),
		)
	} else {
		log.Info("Recurring expense trigger disabled; generation runs via the admin endpoint only")
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// HTTP handlers and routes
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine := router.SetupEngine(router.Dependencies{
		JWTService:       jwtService,
		SystemHandler:    handler.NewSystemHandler(db.DB),
		RecurringHandler: handler.NewRecurringExpenseHandler(templateService, orchestrator, log),
		Logger:           log,
		CORS:             corsConfig,
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		RateLimiter:      rateLimiter,
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

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
