package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-storefront/internal/app"
	"go-storefront/internal/bootstrap"
	"go-storefront/internal/config"
	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/logger"
	"go-storefront/internal/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	shutdownTracing, err := tracing.Init(cfg.TracingEnabled)
	if err != nil {
		zl.Fatal("cannot init tracing", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(zl.Named("http")),
	)

	// build dependency + routes
	application, err := app.BuildApp(ctx, r, cfg, zl)
	if err != nil {
		zl.Fatal("cannot build app", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	application.StartBackground(gctx, g)
	g.Go(func() error {
		return bootstrap.StartHTTPServer(gctx, r, bootstrap.ServerConfig{
			Port:            cfg.Port,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			IdleTimeout:     cfg.IdleTimeout,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, zl.Named("http.server"))
	})

	if err := g.Wait(); err != nil {
		zl.Error("storefront stopped with error", zap.Error(err))
	}

	application.Close()

	tctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(tctx); err != nil {
		zl.Warn("tracing shutdown", zap.Error(err))
	}
	zl.Info("storefront stopped")
}
