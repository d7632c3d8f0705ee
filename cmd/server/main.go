package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/boardinghouse/backend/internal/application/billing"
	housingapp "github.com/boardinghouse/backend/internal/application/housing"
	notificationapp "github.com/boardinghouse/backend/internal/application/notification"
	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/boardinghouse/backend/internal/infrastructure/event"
	"github.com/boardinghouse/backend/internal/infrastructure/logger"
	"github.com/boardinghouse/backend/internal/infrastructure/notification"
	"github.com/boardinghouse/backend/internal/infrastructure/persistence"
	"github.com/boardinghouse/backend/internal/infrastructure/scheduler"
	"github.com/boardinghouse/backend/internal/infrastructure/telemetry"
	"github.com/boardinghouse/backend/internal/interfaces/http/handler"
	"github.com/boardinghouse/backend/internal/interfaces/http/middleware"
	"github.com/boardinghouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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

	log.Info("Starting boarding house backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize tracing before anything issues queries or serves requests
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = true
		if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	rentService := billingapp.NewRentService(paymentRepo, tenantRepo, roomRepo, eventBus, log)
	paymentService := billingapp.NewPaymentService(paymentRepo, tenantRepo, roomRepo, rentService, eventBus, log)
	sweepService := billingapp.NewSweepService(paymentRepo, eventBus, log)
	occupancyService := housingapp.NewOccupancyService(roomRepo, tenantRepo, paymentRepo, eventBus, log)
	registryService := housingapp.NewRegistryService(roomRepo, tenantRepo, log)

	// Notification dispatcher listens on the bus and forwards to the sink
	staffRecipients := make([]uuid.UUID, 0, len(cfg.Notification.StaffRecipients))
	for _, raw := range cfg.Notification.StaffRecipients {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Warn("Ignoring invalid staff recipient ID", zap.String("value", raw), zap.Error(err))
			continue
		}
		staffRecipients = append(staffRecipients, id)
	}
	sink := notification.NewLogSink(log)
	dispatcher := notificationapp.NewDispatcher(paymentRepo, tenantRepo, roomRepo, sink, staffRecipients, log)
	dispatcher.Register(eventBus)
	log.Info("Notification dispatcher registered",
		zap.Strings("event_types", dispatcher.EventTypes()),
		zap.Int("staff_recipients", len(staffRecipients)),
	)

	// Initialize billing scheduler (if enabled)
	var billingScheduler *scheduler.BillingScheduler
	if cfg.Scheduler.Enabled {
		cronHour, cronMinute, err := scheduler.ParseCronSchedule(cfg.Scheduler.DailyCronSchedule)
		if err != nil {
			log.Fatal("Invalid scheduler cron schedule",
				zap.String("schedule", cfg.Scheduler.DailyCronSchedule),
				zap.Error(err),
			)
		}
		schedulerConfig := scheduler.BillingSchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			CronHour:          cronHour,
			CronMinute:        cronMinute,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			GenerationDay:     cfg.Billing.GenerationDay,
			ArchivalRetention: cfg.Billing.ArchivalRetention,
		}
		billingScheduler = scheduler.NewBillingScheduler(
			schedulerConfig, rentService, sweepService, paymentService, occupancyService, log,
		)
		if err := billingScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start billing scheduler", zap.Error(err))
		}
		defer func() {
			if err := billingScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping billing scheduler", zap.Error(err))
			}
		}()
		log.Info("Billing scheduler started",
			zap.Int("cron_hour", cronHour),
			zap.Int("cron_minute", cronMinute),
			zap.Int("generation_day", cfg.Billing.GenerationDay),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	paymentHandler := handler.NewPaymentHandler(paymentService, rentService, sweepService)
	housingHandler := handler.NewHousingHandler(registryService, occupancyService, cfg.Billing.ArchivalRetention)
	systemHandler := handler.NewSystemHandler(db, billingScheduler)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so recovery and request logs carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(paymentHandler).
		Register(housingHandler).
		Register(systemHandler)
	r.Setup()

	// Simple ping at root API level for basic liveness checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
