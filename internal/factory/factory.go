package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/dependencies/random"
	"github.com/mcoot/humanorbot/internal/game"
	"github.com/mcoot/humanorbot/internal/modes"
	"github.com/mcoot/humanorbot/internal/services/auth"
	"github.com/mcoot/humanorbot/internal/services/notifier"
	"github.com/mcoot/humanorbot/internal/services/stats"
	"github.com/mcoot/humanorbot/internal/storage"
	"github.com/mcoot/humanorbot/internal/storage/memory"
	redisstorage "github.com/mcoot/humanorbot/internal/storage/redis"
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

	// Services
	ModeRegistry *modes.Registry
	StatsService *stats.Service
	AuthService  *auth.Service
	Registry     *game.Registry
	Notifier     *notifier.Service
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
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// GameSettings holds phase timing; zero values get defaults
	GameSettings game.Settings
	// PinnedMode forces every session into one challenge mode (optional)
	PinnedMode string
	// NotifierConfig holds webhook notifier timing; zero values get defaults
	NotifierConfig notifier.Config
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

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	settings := cfg.GameSettings
	if settings.VoteTime == 0 {
		settings.VoteTime = 15 * time.Second
	}
	if settings.GraceWindow == 0 {
		settings.GraceWindow = 30 * time.Second
	}

	notifierCfg := cfg.NotifierConfig
	if notifierCfg.Interval == 0 {
		notifierCfg.Interval = 15 * time.Second
	}
	if notifierCfg.Cooldown == 0 {
		notifierCfg.Cooldown = 2 * time.Minute
	}

	modeRegistry := modes.NewRegistry()
	statsService := stats.NewService(store, logger)
	authService := auth.New(store, clk, cfg.AuthConfig)
	registry := game.NewRegistry(logger, clk, rnd, modeRegistry, statsService, settings, cfg.PinnedMode)
	notifierService := notifier.New(store, registry, clk, notifierCfg, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		ModeRegistry: modeRegistry,
		StatsService: statsService,
		AuthService:  authService,
		Registry:     registry,
		Notifier:     notifierService,
	}
}
