package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill"
	"github.com/goliatone/go-formfill/internal/server"
	"github.com/goliatone/go-formfill/pkg/config"
	"github.com/goliatone/go-formfill/pkg/logger"
	"github.com/goliatone/go-formfill/pkg/metrics"
)

func main() {
	cfg, err := config.Load(config.StoreMemory)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	backend, closeBackend, err := formfill.Backend(ctx, cfg)
	if err != nil {
		zl.Fatal("open session backend", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() { _ = closeBackend() }()

	client, source, err := formfill.Gateway(cfg, zl, m)
	if err != nil {
		zl.Fatal("configure gateway", zap.Error(err))
	}

	srv, err := server.New(backend, client, source,
		server.WithLogger(zl),
		server.WithMetrics(m),
		server.WithRequestTimeout(cfg.HTTP.RequestTimeout),
		server.WithSecureCookie(cfg.Env == config.EnvProduction),
		server.WithRuntimeAssets(formfill.RuntimeAssetsFS()),
	)
	if err != nil {
		zl.Fatal("build server", zap.Error(err))
	}

	zl.Info("starting formfill-web",
		zap.String("env", cfg.Env),
		zap.String("store", cfg.Store.Driver),
		zap.String("form_source", cfg.FormSource),
	)
	if err := srv.ListenAndServe(ctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownGrace); err != nil {
		zl.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
