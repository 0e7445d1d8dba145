package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "sourcing-workflow/internal/adapter/http"
	mw "sourcing-workflow/internal/adapter/middleware"
	"sourcing-workflow/internal/app"
	"sourcing-workflow/internal/config"
	"sourcing-workflow/internal/infrastructure/cache"
	"sourcing-workflow/internal/infrastructure/db"
	"sourcing-workflow/internal/logging"
	"sourcing-workflow/pkg/clock"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), db.WithLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatal("open mysql", zap.Error(err))
	}
	if cfg.DBAutoMigrate {
		if err := db.Migrate(context.Background(), gdb, log); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal("open redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	ucs := app.New(gdb, app.Options{
		DefaultCurrency:     cfg.DefaultCurrency,
		AttachmentURLPrefix: cfg.AttachmentURLPrefix,
	}, clock.System, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(mw.RequestID(), mw.RequestLogger(log), echomw.Recover())
	httpadp.Register(e, ucs.Handlers(clock.System), mw.Idempotency(rdb, cfg.IdempotencyTTL(), log))

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
