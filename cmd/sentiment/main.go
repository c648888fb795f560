package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aescanero/sentiment/internal/config"
	"github.com/aescanero/sentiment/internal/logger"
	"github.com/aescanero/sentiment/pkg/adapters/events/memory"
	"github.com/aescanero/sentiment/pkg/adapters/events/redis"
	"github.com/aescanero/sentiment/pkg/adapters/inference/huggingface"
	promcollector "github.com/aescanero/sentiment/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/sentiment/pkg/api/grpc"
	"github.com/aescanero/sentiment/pkg/api/http"
	"github.com/aescanero/sentiment/pkg/api/websocket"
	"github.com/aescanero/sentiment/pkg/ports"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("sentiment gateway failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("starting sentiment gateway",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("model", huggingface.Model))

	// A missing token is not fatal; /sentiment answers 500 until it is set
	var classifier ports.Classifier
	if cfg.TokenConfigured() {
		client, err := huggingface.NewClient(&huggingface.Config{
			BaseURL: cfg.HuggingFace.BaseURL,
			Token:   cfg.HuggingFace.Token,
			Logger:  log,
		})
		if err != nil {
			return fmt.Errorf("failed to create inference client: %w", err)
		}
		classifier = client
	} else {
		log.Warn("HF_TOKEN not set")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsCollector := promcollector.NewCollector(registry)

	eventBus, eventBusName, redisClient := newEventBus(cfg, log)

	httpServer := http.NewServer(&http.Config{
		Addr:                cfg.GetHTTPAddr(),
		Classifier:          classifier,
		Model:               huggingface.Model,
		TokenConfigured:     cfg.TokenConfigured(),
		Metrics:             metricsCollector,
		Gatherer:            registry,
		EventBus:            eventBus,
		EventBusName:        eventBusName,
		EventPublishTimeout: cfg.Timeouts.EventPublish,
		Logger:              log,
	})
	httpServer.SetupWebSocket(websocket.NewHandler(eventBus, log))

	var grpcServer *grpc.Server
	if cfg.GRPCPort != 0 {
		var err error
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Addr:            cfg.GetGRPCAddr(),
			TokenConfigured: cfg.TokenConfigured(),
			Logger:          log,
		})
		if err != nil {
			return fmt.Errorf("failed to create gRPC server: %w", err)
		}
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- httpServer.Start()
	}()
	if grpcServer != nil {
		go func() {
			errCh <- grpcServer.Start()
		}()
	}

	log.Info("sentiment gateway started",
		zap.String("http_addr", cfg.GetHTTPAddr()),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("event_bus", eventBusName))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case <-sigCh:
		log.Info("received shutdown signal")
	case serveErr = <-errCh:
		log.Error("server stopped unexpectedly", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			log.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	if err := eventBus.Close(); err != nil {
		log.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}

	log.Info("sentiment gateway shut down complete")
	return serveErr
}

// newEventBus returns the Redis Streams bus when Redis is configured and
// reachable, and the in-memory bus otherwise.
func newEventBus(cfg *config.Config, log *zap.Logger) (ports.EventBus, string, *goredis.Client) {
	if !cfg.RedisEnabled() {
		return memory.NewInMemoryEventBus(log), "memory", nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		DialTimeout: cfg.Redis.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("failed to connect to Redis, continuing with in-memory events",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err))
		_ = client.Close()
		return memory.NewInMemoryEventBus(log), "memory", nil
	}

	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	return redis.NewStreamsEventBus(client, redis.DefaultMaxLen, log), "redis", client
}
