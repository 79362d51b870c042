package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/setgame/internal/api"
	"github.com/mcoot/setgame/internal/config"
	"github.com/mcoot/setgame/internal/factory"
	"github.com/mcoot/setgame/internal/services/session"
	redisstorage "github.com/mcoot/setgame/internal/storage/redis"
	"github.com/mcoot/setgame/internal/web"
)

func main() {
	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load(bootLogger)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	sessionCfg := session.DefaultConfig()
	sessionCfg.PersistEveryTicks = cfg.PersistEveryTicks

	factoryCfg := factory.Config{
		Logger:        logger,
		StorageType:   cfg.StorageType,
		SessionConfig: sessionCfg,
		DealSeed:      cfg.DealSeed,
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SessionTTL = cfg.SessionTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return err
	}

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		SessionService: app.SessionService,
		Metrics:        app.Metrics,
		Gatherer:       app.Registry,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		SessionService: app.SessionService,
		HubManager:     app.HubManager,
		WSManager:      app.WSManager,
		Metrics:        app.Metrics,
		StaticDir:      cfg.StaticDir,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", apiRouter)
	mux.Handle("/", webRouter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.HubManager.RunJanitor(ctx, cfg.HubCleanupInterval)

	server := api.NewServer(mux, cfg, logger)
	server.BeforeDrain("close event streams", func(context.Context) error {
		app.HubManager.Close()
		return nil
	})
	// Live games are saved so they resume on the next start
	server.AfterDrain("persist sessions", app.SessionService.Shutdown)
	if closer, ok := app.Storage.(io.Closer); ok {
		server.AfterDrain("close storage", func(context.Context) error { return closer.Close() })
	}

	logger.Info("starting server",
		slog.String("addr", cfg.Addr()),
		slog.String("storage", cfg.StorageType))
	return server.Run(ctx)
}
