// The sweep worker transitions elapsed scheduled meetings to
// completed. It is the only writer of that status; nothing in the
// booking flow sets it.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/campuscare/student-engagement/internal/app"
	"github.com/campuscare/student-engagement/internal/config"
	"github.com/campuscare/student-engagement/internal/db"
	"github.com/campuscare/student-engagement/internal/scheduling"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	logger := app.NewLogger(cfg.Env)
	defer logger.Sync()

	logger.Info("sweep-worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.SweepInterval),
		zap.Duration("grace", cfg.SweepGrace))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	sweep := scheduling.NewSweep(scheduling.NewPgRepository(pgPool), cfg.SweepGrace, logger)

	// Run once at startup, then on the cron schedule.
	runOnce(rootCtx, sweep, logger)

	c := cron.New()
	c.Schedule(cron.Every(cfg.SweepInterval), cron.FuncJob(func() {
		runOnce(rootCtx, sweep, logger)
	}))
	c.Start()

	<-rootCtx.Done()
	logger.Info("shutdown signal received, stopping sweep worker")

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.ShutdownTimeout):
		logger.Warn("sweep run still in flight at shutdown deadline")
	}
}

func runOnce(ctx context.Context, sweep *scheduling.Sweep, logger *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	if err := sweep.Run(runCtx); err != nil {
		logger.Error("sweep run error", zap.Error(err))
		return
	}
	logger.Info("sweep run complete", zap.Duration("took", time.Since(start)))
}
