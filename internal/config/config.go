package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Env var prefix for all settings
const envPrefix = "SETGAME_"

// Config holds server settings
type Config struct {
	Host     string
	Port     int
	LogLevel slog.Level

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration // must exceed the SSE keepalive period
	ShutdownTimeout time.Duration

	// StaticDir is served under /static/ when set
	StaticDir string

	// HubCleanupInterval closes SSE hubs nobody is listening to
	HubCleanupInterval time.Duration

	// DealSeed makes every deal reproducible when non-zero
	DealSeed uint64

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string
	RedisURL    string
	SessionTTL  time.Duration

	// PersistEveryTicks saves running games every N timer ticks. 0 disables it.
	PersistEveryTicks int
}

// Defaults returns a Config with all default values
func Defaults() *Config {
	return &Config{
		Host:               "",
		Port:               8080,
		LogLevel:           slog.LevelInfo,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       60 * time.Second,
		ShutdownTimeout:    30 * time.Second,
		HubCleanupInterval: time.Minute,
		StorageType:        "memory",
		RedisURL:           "redis://localhost:6379",
		SessionTTL:         24 * time.Hour,
		PersistEveryTicks:  10,
	}
}

// Load reads optional .env files into the environment, then applies SETGAME_*
// overrides to the defaults. Missing files are skipped; invalid values are
// logged and ignored.
func Load(logger *slog.Logger, envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to read env file", slog.String("file", f), slog.Any("error", err))
		}
	}

	cfg := Defaults()
	overrideString(&cfg.Host, "HOST")
	overrideInt(logger, &cfg.Port, "PORT")
	overrideLevel(logger, &cfg.LogLevel, "LOG_LEVEL")
	overrideDuration(logger, &cfg.ReadTimeout, "READ_TIMEOUT")
	overrideDuration(logger, &cfg.WriteTimeout, "WRITE_TIMEOUT")
	overrideDuration(logger, &cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT")
	overrideString(&cfg.StaticDir, "STATIC_DIR")
	overrideDuration(logger, &cfg.HubCleanupInterval, "HUB_CLEANUP_INTERVAL")
	overrideUint(logger, &cfg.DealSeed, "DEAL_SEED")
	overrideString(&cfg.StorageType, "STORAGE_TYPE")
	overrideString(&cfg.RedisURL, "REDIS_URL")
	overrideDuration(logger, &cfg.SessionTTL, "SESSION_TTL")
	overrideInt(logger, &cfg.PersistEveryTicks, "PERSIST_EVERY_TICKS")
	return cfg
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func overrideString(field *string, key string) {
	if val := os.Getenv(envPrefix + key); val != "" {
		*field = val
	}
}

func overrideInt(logger *slog.Logger, field *int, key string) {
	val := os.Getenv(envPrefix + key)
	if val == "" {
		return
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		logger.Warn("invalid config value", slog.String("key", envPrefix+key), slog.String("value", val))
		return
	}
	*field = n
}

func overrideUint(logger *slog.Logger, field *uint64, key string) {
	val := os.Getenv(envPrefix + key)
	if val == "" {
		return
	}
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		logger.Warn("invalid config value", slog.String("key", envPrefix+key), slog.String("value", val))
		return
	}
	*field = n
}

func overrideDuration(logger *slog.Logger, field *time.Duration, key string) {
	val := os.Getenv(envPrefix + key)
	if val == "" {
		return
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		logger.Warn("invalid config value", slog.String("key", envPrefix+key), slog.String("value", val))
		return
	}
	*field = d
}

func overrideLevel(logger *slog.Logger, field *slog.Level, key string) {
	val := os.Getenv(envPrefix + key)
	if val == "" {
		return
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(val)); err != nil {
		logger.Warn("invalid config value", slog.String("key", envPrefix+key), slog.String("value", val))
		return
	}
	*field = level
}
