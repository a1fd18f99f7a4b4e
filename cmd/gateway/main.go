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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vrclassroom/mentor-gateway/internal/completion"
	"github.com/vrclassroom/mentor-gateway/internal/config"
	"github.com/vrclassroom/mentor-gateway/internal/gateway"
	"github.com/vrclassroom/mentor-gateway/internal/origin"
	"github.com/vrclassroom/mentor-gateway/internal/ratelimit"
	"github.com/vrclassroom/mentor-gateway/internal/telemetry"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "configs/gateway.yaml", "path to configuration file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration — a missing provider credential is the one fatal
	// startup condition.
	loader := config.NewLoader(*configPath, logger)
	if err := loader.Load(); err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	cfg := loader.Config()

	// Origin allowlist, swapped in place on config reload
	validator := origin.NewValidator(cfg.CORS.Origins())
	loader.OnReload(func() {
		validator.Update(loader.Config().CORS.Origins())
		logger.Info("origin allowlist reloaded")
	})

	// Rate limiter: Redis-backed when configured so replicas share counters,
	// in-memory otherwise
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable, using in-memory rate limiter", "error", err)
		} else {
			limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
			logger.Info("redis connected")
		}
	}

	metrics := telemetry.NewMetrics()

	// Metrics listener, separate from the gateway routes
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	client := completion.NewClient(cfg.Provider, metrics)
	handler := gateway.NewHandler(client, metrics, cfg.Server.MaxBodyBytes)
	router := gateway.NewRouter(handler, validator, limiter, cfg.RateLimit, metrics)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("gateway stopped")
}
