package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-service/config"
	httpHandler "wallet-service/internal/adapter/http/handler"
	"wallet-service/internal/adapter/http/middleware"
	"wallet-service/internal/adapter/metrics"
	"wallet-service/internal/adapter/storage"
	redisStorage "wallet-service/internal/adapter/storage/redis"
	"wallet-service/internal/core/ports"
	"wallet-service/internal/service"
	"wallet-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := ""
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting wallet service")

	ctx := context.Background()

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open wallet store")
	}
	defer backend.Close()

	var healthCheckers []ports.HealthChecker
	if backend.Health != nil {
		healthCheckers = append(healthCheckers, backend.Health)
	}

	var recorder ports.OperationRecorder = metrics.Nop{}
	deps := httpHandler.RouterDeps{Logger: log}
	if cfg.Metrics.Enabled {
		promRecorder := metrics.NewRecorder()
		recorder = promRecorder
		deps.MetricsPath = cfg.Metrics.Path
		deps.MetricsHandler = promRecorder.Handler()
	}

	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
		if cfg.RateLimit.Enabled {
			deps.RateLimitStore = redisStorage.NewRateLimitStore(rdb)
			deps.RateLimitRules = middleware.RateLimitRules(cfg.RateLimit)
		}
		if cfg.Idempotency.Enabled {
			deps.IdempotencyCache = redisStorage.NewIdempotencyCache(rdb)
			deps.IdempotencyTTL = cfg.Idempotency.TTL
		}
	} else if cfg.RateLimit.Enabled || cfg.Idempotency.Enabled {
		log.Warn().Msg("redis disabled: rate limiting and idempotency keys are off")
	}

	deps.Processor = service.NewOperationProcessor(backend.Store, recorder, log)
	deps.Reader = service.NewWalletReader(backend.Store)
	deps.HealthCheckers = healthCheckers

	router := httpHandler.SetupRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
