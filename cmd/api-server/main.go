package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campuscare/student-engagement/internal/analytics"
	"github.com/campuscare/student-engagement/internal/api"
	"github.com/campuscare/student-engagement/internal/app"
	"github.com/campuscare/student-engagement/internal/config"
	"github.com/campuscare/student-engagement/internal/db"
	"github.com/campuscare/student-engagement/internal/identity"
	"github.com/campuscare/student-engagement/internal/locking"
	redisclient "github.com/campuscare/student-engagement/internal/redis"
	"github.com/campuscare/student-engagement/internal/scheduling"
	"github.com/campuscare/student-engagement/internal/wellbeing"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	logger := app.NewLogger(cfg.Env)
	defer logger.Sync()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	// Apply migrations
	migCtx, cancelMig := context.WithTimeout(rootCtx, 30*time.Second)
	err = db.Migrate(migCtx, pgPool, cfg.MigrationsDir)
	cancelMig()
	if err != nil {
		logger.Fatal("migration error", zap.Error(err))
	}
	logger.Info("migrations applied")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}()
	logger.Info("connected to Redis")

	// Wiring
	users := identity.NewPgRepository(pgPool)
	meetings := scheduling.NewPgRepository(pgPool)
	reports := wellbeing.NewPgRepository(pgPool)
	locker := locking.NewRedisLocker(rdb, cfg.LockTTL)

	accountSvc := identity.NewService(users, identity.NewBcryptHasher())
	availabilitySvc := scheduling.NewAvailability(meetings)
	bookingSvc := scheduling.NewBooking(meetings, users, locker, logger)
	reportSvc := wellbeing.NewService(reports, users, locker, wellbeing.LogEscalation{Log: logger}, logger)
	analyticsSvc := analytics.NewService(users, meetings, reports)

	router := api.NewRouter(api.RouterConfig{
		Availability: availabilitySvc,
		Booking:      bookingSvc,
		Reports:      reportSvc,
		Accounts:     accountSvc,
		Analytics:    analyticsSvc,
		Logger:       logger,
		PgPool:       pgPool,
		Redis:        rdb,
		Env:          cfg.Env,
		Version:      version,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
