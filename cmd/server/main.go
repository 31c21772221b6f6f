package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MCASE28/planb-tier/internal/api"
	"github.com/MCASE28/planb-tier/internal/factory"
	"github.com/MCASE28/planb-tier/internal/services/auth"
	redisstorage "github.com/MCASE28/planb-tier/internal/storage/redis"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AuthConfig: auth.Config{
			Password:     os.Getenv("HOST_PASSWORD"),
			PasswordHash: os.Getenv("HOST_PASSWORD_HASH"),
		},
	}

	if cfg.AuthConfig.Password == "" && cfg.AuthConfig.PasswordHash == "" {
		logger.Error("HOST_PASSWORD or HOST_PASSWORD_HASH must be set")
		os.Exit(1)
	}

	if raw := os.Getenv("DEFAULT_MAX_PLAYERS"); raw != "" {
		maxPlayers, err := strconv.Atoi(raw)
		if err != nil || maxPlayers < 1 {
			logger.Error("invalid DEFAULT_MAX_PLAYERS", slog.String("value", raw))
			os.Exit(1)
		}
		cfg.DefaultMaxPlayers = maxPlayers
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	if cfg.StorageType == factory.StorageTypePostgres && cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL required when STORAGE_TYPE=postgres")
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	// Run the SSE hub and the change-feed bridge
	go app.Hub.Run()
	go func() {
		if err := app.Broadcaster.Run(ctx); err != nil {
			logger.Error("broadcaster error", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		RoomController: app.RoomController,
		Hub:            app.Hub,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			logger.Error("invalid PORT", slog.String("value", raw))
			os.Exit(1)
		}
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
