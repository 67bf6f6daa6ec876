package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studytracker/config"
	"studytracker/internal/application/usecase"
	"studytracker/internal/infrastructure/cache"
	"studytracker/internal/infrastructure/repository"
	"studytracker/internal/logger"
	"studytracker/internal/middleware"
	grpc_server "studytracker/internal/transport/grpc"
	handlers "studytracker/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer lg.Sync()
	lg = lg.With("service", cfg.ServiceName)

	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(cfg)
	if err != nil {
		lg.Fatal("Failed to open storage", "driver", cfg.DBDriver, "error", err)
	}
	lg.Info("Storage ready", "driver", cfg.DBDriver)

	var (
		topicCache *cache.TopicCache
		limiter    *middleware.RateLimiter
		rdb        *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			lg.Fatal("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
		}
		lg.Info("Connected to Redis", "addr", cfg.RedisAddr)
		topicCache = cache.NewTopicCache(rdb, cfg.CacheTTL)
		limiter = middleware.NewRateLimiter(rdb)
	}

	topicUseCase := usecase.NewTopicUseCase(store, topicCache, lg)
	sessionUseCase := usecase.NewSessionUseCase(store, topicCache, lg)

	router := handlers.NewRouter(
		handlers.RouterConfig{
			AllowedOrigins: cfg.Origins(),
			WriteRateLimit: cfg.WriteRateLimit,
			Limiter:        limiter,
		},
		lg,
		handlers.NewHealthHandler(cfg.ServiceName, store, lg),
		handlers.NewTopicHandler(topicUseCase, lg),
		handlers.NewSessionHandler(sessionUseCase, lg),
	)

	server := &http.Server{
		Addr:         cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		lg.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("HTTP server error", "error", err)
		}
	}()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	var grpcServer *grpc_server.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", cfg.GRPCPort)
		if err != nil {
			lg.Fatal("Failed to listen", "addr", cfg.GRPCPort, "error", err)
		}
		grpcServer = grpc_server.NewServer(cfg.ServiceName, store, lg)
		go grpcServer.Watch(watchCtx, 15*time.Second)
		go func() {
			lg.Info("gRPC health server listening", "addr", cfg.GRPCPort)
			if err := grpcServer.Serve(lis); err != nil {
				lg.Fatal("gRPC server error", "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("Shutting down server...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := server.Shutdown(ctx); err != nil {
		lg.Error("HTTP shutdown failed", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(); err != nil {
		lg.Error("Storage close failed", "error", err)
	}
}

func openStore(cfg config.Config) (repository.Store, error) {
	if cfg.DBDriver == repository.DriverMemory {
		return repository.NewMemoryStore(), nil
	}
	store, err := repository.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.AutoMigrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
