package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/app"
	"github.com/octobees/presence-audit/internal/auth"
	"github.com/octobees/presence-audit/internal/config"
	"github.com/octobees/presence-audit/internal/handler"
	"github.com/octobees/presence-audit/internal/logger"
	middlewarepkg "github.com/octobees/presence-audit/internal/middleware"
	"github.com/octobees/presence-audit/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	application, err := app.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to wire application", zap.Error(err))
	}
	defer application.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	auditHandler := handler.NewAuditHandler(application.Audits, handler.Limits{
		Daily:    cfg.DailyQuotaLimit,
		ProDaily: cfg.ProDailyQuotaLimit,
	}, zl)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(zl))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{Audits: auditHandler})

	serverErr := make(chan error, 1)
	go func() {
		zl.Info("API listening", zap.String("port", cfg.Port), zap.String("quota_backend", cfg.QuotaBackend))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		zl.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
