package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sijun-kevin-hu/scam-detector/internal/api"
	"github.com/sijun-kevin-hu/scam-detector/internal/api/handlers"
	"github.com/sijun-kevin-hu/scam-detector/internal/config"
	"github.com/sijun-kevin-hu/scam-detector/internal/domain/services/ai"
	"github.com/sijun-kevin-hu/scam-detector/internal/infrastructure/cache"
	"github.com/sijun-kevin-hu/scam-detector/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting scam-detector")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional: without it the service runs with no rate
	// limiting and no operator stats.
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without rate limiting and stats")
			redisCache = nil
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize the analysis core. A missing Gemini credential is a
	// valid configuration: all analyses then run the heuristic path.
	gemini := ai.NewGeminiClient(cfg.Gemini, log)
	analyzer := ai.NewAnalyzer(gemini, log)
	if gemini.Configured() {
		log.Info().Str("model", cfg.Gemini.Model).Msg("remote classifier configured")
	} else {
		log.Info().Msg("no remote classifier credential, running heuristic-only")
	}

	// Initialize handlers
	deps := handlers.Dependencies{
		Analyzer: analyzer,
		Cache:    redisCache,
		Logger:   log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
