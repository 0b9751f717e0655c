package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/01moynul/inventario-golang/internal/config"
	"github.com/01moynul/inventario-golang/internal/handlers"
	"github.com/01moynul/inventario-golang/internal/inventory"
	"github.com/01moynul/inventario-golang/internal/logger"
	"github.com/01moynul/inventario-golang/internal/metrics"
	"github.com/01moynul/inventario-golang/internal/routes"
	"github.com/01moynul/inventario-golang/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	envErr := godotenv.Load()
	cfg := config.Load()

	logger.Init("inventario", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	if envErr != nil {
		logger.Logger.Warn().Msg("Could not find or load .env file. Relying on system environment variables.")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. --- Storage Backend (decided once) ---
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	// 2. --- Inventory Service ---
	caseMode, ok := inventory.ParseCaseMode(cfg.NormalizeCase)
	if !ok {
		logger.Logger.Warn().Str("value", cfg.NormalizeCase).Msg("Unknown NORMALIZE_CASE, keeping text unchanged")
	}
	svc := inventory.NewService(store, inventory.Settings{
		Normalize:           inventory.NormalizeOptions{Case: caseMode, Trim: cfg.TrimSpaces},
		AllowDeleteFiltered: cfg.AllowDeleteFiltered,
		RefreshSeconds:      cfg.RefreshSeconds,
		BaseURL:             cfg.BaseURL,
	}, metrics.New(prometheus.DefaultRegisterer))

	if _, err := svc.Refresh(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Starting with an empty inventory")
	}

	// 3. --- Background Worker (periodic reload) ---
	svc.StartRefresher(ctx)

	// --- Application Setup ---
	app := &handlers.Handlers{
		Inventory: svc,
		UploadDir: cfg.UploadDir,
		PublicURL: cfg.PublicURL,
	}
	router := routes.SetupRouter(app, routes.Options{CORSOrigin: cfg.CORSOrigin})

	// --- Start Server ---
	logger.Logger.Info().
		Str("port", cfg.Port).
		Str("backend", store.Backend().String()).
		Msg("Starting inventory API server")

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}
