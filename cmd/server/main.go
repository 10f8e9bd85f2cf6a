package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apptt "github.com/timeclock/backend/internal/application/timetracking"
	"github.com/timeclock/backend/internal/domain/shared"
	"github.com/timeclock/backend/internal/domain/timetracking"
	"github.com/timeclock/backend/internal/infrastructure/clock"
	"github.com/timeclock/backend/internal/infrastructure/config"
	"github.com/timeclock/backend/internal/infrastructure/event"
	"github.com/timeclock/backend/internal/infrastructure/logger"
	"github.com/timeclock/backend/internal/infrastructure/persistence"
	"github.com/timeclock/backend/internal/infrastructure/scheduler"
	"github.com/timeclock/backend/internal/interfaces/http/handler"
	"github.com/timeclock/backend/internal/interfaces/http/middleware"
	"github.com/timeclock/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting timeclock backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Calendar clock
	cal, err := clock.New(clock.Config{
		Timezone:     cfg.Calendar.Timezone,
		WorkDays:     cfg.Calendar.WorkDays,
		Holidays:     cfg.Calendar.Holidays,
		WeekStartsOn: cfg.Calendar.WeekStartsOn,
	})
	if err != nil {
		log.Fatal("Failed to build calendar clock", zap.Error(err))
	}

	// Repositories
	entryRepo := persistence.NewGormTimeEntryRepository(db.DB)

	// Cross-instance broadcaster: Redis when configured, in-process otherwise
	var broadcaster shared.Broadcaster
	if cfg.Redis.Enabled {
		redisBroadcaster, err := event.NewRedisBroadcaster(cfg.Redis, event.WithBroadcasterLogger(log))
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		broadcaster = redisBroadcaster
		log.Info("Cross-instance broadcasting enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		broadcaster = event.NewInProcessBroadcaster()
	}
	defer func() {
		if err := broadcaster.Close(); err != nil {
			log.Error("Error closing broadcaster", zap.Error(err))
		}
	}()

	policy := timetracking.OvertimePolicy{
		StandardWorkHours:       cfg.TimeTracking.StandardWorkHours,
		OvertimeThreshold:       cfg.TimeTracking.OvertimeThreshold,
		OvertimeRate:            cfg.TimeTracking.OvertimeRate,
		DoubleOvertimeThreshold: cfg.TimeTracking.DoubleOvertimeThreshold,
		DoubleOvertimeRate:      cfg.TimeTracking.DoubleOvertimeRate,
		MaxOvertimePerDay:       cfg.TimeTracking.MaxOvertimePerDay,
		MaxOvertimePerWeek:      cfg.TimeTracking.MaxOvertimePerWeek,
		RestDayRate:             cfg.TimeTracking.RestDayRate,
		HolidayRate:             cfg.TimeTracking.HolidayRate,
	}
	if err := policy.Validate(); err != nil {
		log.Fatal("Invalid overtime policy", zap.Error(err))
	}
	hourlyRate := decimal.NewFromFloat(cfg.TimeTracking.HourlyRate)

	// Application services
	notifier := apptt.NewLogNotifier(log)
	sessionService := apptt.NewSessionService(
		entryRepo,
		cal,
		scheduler.NewWallClock(),
		broadcaster,
		notifier,
		log,
		apptt.Config{
			Policy:                 policy,
			HourlyRate:             hourlyRate,
			WorkReminderInterval:   cfg.Session.WorkReminderInterval,
			BreakReminderDuration:  cfg.Session.BreakReminderDuration,
			SyncInterval:           cfg.Session.SyncInterval,
			CleanupInterval:        cfg.Session.CleanupInterval,
			FutureClockInTolerance: cfg.Session.FutureClockInTolerance,
			BroadcastTopic:         cfg.Session.BroadcastTopic,
		},
	)

	// Event bus for local subscribers
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	sessionService.SetEventPublisher(eventBus)

	if err := sessionService.Initialize(context.Background()); err != nil {
		log.Fatal("Failed to start session engine", zap.Error(err))
	}
	defer func() {
		if err := sessionService.Shutdown(context.Background()); err != nil {
			log.Error("Error stopping session engine", zap.Error(err))
		}
	}()

	// Stale session sweeper
	staleService := apptt.NewStaleEntryService(entryRepo, cal, notifier, log, policy, hourlyRate, cfg.StaleEntry.Expiration)
	sweeper := scheduler.NewStaleEntrySweeper(staleService, log, cfg.StaleEntry)
	if err := sweeper.Start(context.Background()); err != nil {
		log.Fatal("Failed to start stale entry sweeper", zap.Error(err))
	}
	defer func() {
		if err := sweeper.Stop(context.Background()); err != nil {
			log.Error("Error stopping stale entry sweeper", zap.Error(err))
		}
	}()

	// HTTP handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	reportsHandler := handler.NewReportsHandler(sessionService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(sessionHandler).
		Register(reportsHandler).
		Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	}
}
