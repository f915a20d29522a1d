package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mcoot/humanorbot/internal/api"
	"github.com/mcoot/humanorbot/internal/config"
	"github.com/mcoot/humanorbot/internal/factory"
	"github.com/mcoot/humanorbot/internal/game"
	"github.com/mcoot/humanorbot/internal/services/auth"
	"github.com/mcoot/humanorbot/internal/services/notifier"
	redisstorage "github.com/mcoot/humanorbot/internal/storage/redis"
	"github.com/mcoot/humanorbot/internal/ws"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		AuthConfig: auth.Config{
			AgentSecret: cfg.AgentSecret,
			AdminSecret: cfg.AdminSecret,
		},
		GameSettings: game.Settings{
			VoteTime:    cfg.VoteTime,
			GraceWindow: cfg.GraceWindow,
			RoundTime:   cfg.RoundTimeOverride,
		},
		PinnedMode: cfg.PinnedMode,
		NotifierConfig: notifier.Config{
			Interval: cfg.NotifyInterval,
			Cooldown: cfg.NotifyCooldown,
		},
	}

	if factoryCfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.AgentSecret == "" {
		logger.Warn("AGENT_SECRET not set, shared-secret agent joins disabled")
	}
	if cfg.AdminSecret == "" {
		logger.Warn("ADMIN_SECRET not set, provider management disabled")
	}

	wsHandler := ws.NewHandler(app.Registry, app.Clock, logger)

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		StatsService: app.StatsService,
		Registry:     app.Registry,
		Storage:      app.Storage,
		Clock:        app.Clock,
		Random:       app.Random,
		WSHandler:    wsHandler,
	})

	serverConfig := api.DefaultServerConfig()
	if port, err := strconv.Atoi(cfg.Port); err == nil {
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Webhook notifier runs until shutdown
	go app.Notifier.Run(ctx)

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
