package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"financas/internal/auth"
	"financas/internal/charts"
	"financas/internal/config"
	apphttp "financas/internal/http"
	"financas/internal/ledger"
	applog "financas/internal/log"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	store, err := ledger.NewStore(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to initialize ledger store", applog.FieldError, err)
		os.Exit(1)
	}

	renderer, err := charts.NewRenderer(cfg.StaticDir, "/static")
	if err != nil {
		logger.Error("Failed to initialize chart renderer", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.DevMode {
		renderer.CleanStale()
	}

	var gateway auth.Gateway
	if cfg.AuthEnabled {
		authStore, err := auth.NewStore(cfg.AuthDBPath)
		if err != nil {
			logger.Error("Failed to initialize auth store", applog.FieldError, err)
			os.Exit(1)
		}
		defer authStore.Close()
		gateway = authStore
		logger.Info("Multi-tenant mode enabled", "auth_db", cfg.AuthDBPath)
	} else {
		logger.Info("Single-tenant mode", applog.FieldAccount, cfg.DefaultAccount)
	}

	srv, err := apphttp.NewServer(cfg, store, renderer, gateway, logger)
	if err != nil {
		logger.Error("Failed to initialize server", applog.FieldError, err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "auth_enabled", cfg.AuthEnabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
