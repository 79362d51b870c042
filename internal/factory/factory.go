package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mcoot/setgame/internal/dependencies/clock"
	"github.com/mcoot/setgame/internal/dependencies/random"
	"github.com/mcoot/setgame/internal/metrics"
	"github.com/mcoot/setgame/internal/services/session"
	"github.com/mcoot/setgame/internal/storage"
	"github.com/mcoot/setgame/internal/storage/memory"
	redisstorage "github.com/mcoot/setgame/internal/storage/redis"
	"github.com/mcoot/setgame/internal/web/sse"
	"github.com/mcoot/setgame/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Observability
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// Services
	SessionService *session.Service
	HubManager     *sse.HubManager
	Broadcaster    *sse.Broadcaster
	WSManager      *ws.Manager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SessionConfig holds configuration for the session service (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// DealSeed makes deals reproducible when non-zero
	DealSeed uint64
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	var rnd random.Random = random.New()
	if cfg.DealSeed != 0 {
		logger.Warn("deals are seeded and reproducible", slog.Uint64("seed", cfg.DealSeed))
		rnd = random.NewSeeded(cfg.DealSeed)
	}

	// Use default session config if not provided
	sessionCfg := cfg.SessionConfig
	if sessionCfg == (session.Config{}) {
		sessionCfg = session.DefaultConfig()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return newWithDependencies(store, clk, rnd, registry, sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, registry *prometheus.Registry, sessionCfg session.Config, logger *slog.Logger) *App {
	m := metrics.New(registry)

	// Create services
	sessionService := session.New(store, clk, rnd, m, sessionCfg, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	wsManager := ws.NewManager(logger)

	// Every session event fans out to SSE and WebSocket subscribers
	sessionService.AddPublisher(broadcaster)
	sessionService.AddPublisher(wsManager)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Registry:       registry,
		Metrics:        m,
		SessionService: sessionService,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
		WSManager:      wsManager,
	}
}
