package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citypulse-app/curator/internal/api"
	"github.com/citypulse-app/curator/internal/bus"
	"github.com/citypulse-app/curator/internal/config"
	"github.com/citypulse-app/curator/internal/recommend"
	"github.com/citypulse-app/curator/internal/scoring"
	"github.com/citypulse-app/curator/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Message bus (optional)
	var busClient bus.Client
	if cfg.Bus.URL != "" {
		bc, err := bus.NewNATSClient(ctx, cfg.Bus.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to bus, running without events", "error", err)
		} else {
			busClient = bc
			defer bc.Close()
			logger.Info("connected to bus")
		}
	}

	// Scorer
	scorer, err := scoring.NewScorer(scoring.Config{
		HistoryBoost:    cfg.Recommend.HistoryBoost,
		HighThreshold:   cfg.Recommend.HighThreshold,
		MediumThreshold: cfg.Recommend.MediumThreshold,
	}, logger)
	if err != nil {
		logger.Error("failed to build fuzzy system", "error", err)
		os.Exit(1)
	}

	// Recommendation service
	svc := recommend.New(db, busClient, scorer, cfg, logger)
	svc.Start(ctx)
	defer svc.Stop()
	logger.Info("recommendation service started", "refresh_interval", cfg.RefreshInterval())

	// Subscribe to bus events for bookkeeping
	svc.SetupSubscriptions()

	// API server
	router := api.NewRouter(db, busClient, svc, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
