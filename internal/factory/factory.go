package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/chessarchive/internal/config"
	"github.com/mcoot/chessarchive/internal/dependencies/clock"
	"github.com/mcoot/chessarchive/internal/services/cache"
	"github.com/mcoot/chessarchive/internal/services/remote"
	"github.com/mcoot/chessarchive/internal/services/scanner"
	"github.com/mcoot/chessarchive/internal/storage"
	"github.com/mcoot/chessarchive/internal/storage/file"
	"github.com/mcoot/chessarchive/internal/storage/memory"
	redisstorage "github.com/mcoot/chessarchive/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageTypeMemory
	StorageTypeFile   = config.StorageTypeFile
	StorageTypeRedis  = config.StorageTypeRedis
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Remote remote.Fetcher

	// Services
	Cache   *cache.Service
	Scanner *scanner.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "file" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// DataDir is the cache root (required if StorageType is "file")
	DataDir string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Remote configures the archive API client; UserAgent is required
	Remote remote.Config
	// HTTPClient is used for remote calls (optional)
	HTTPClient *http.Client
	// FetchConcurrency bounds parallel month fetches (optional)
	FetchConcurrency int
}

// ConfigFrom translates loaded application settings into a factory config
func ConfigFrom(cfg config.Config, logger *slog.Logger) Config {
	fc := Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		DataDir:     cfg.Storage.DataDir,
		Remote: remote.Config{
			BaseURL:        cfg.Remote.BaseURL,
			UserAgent:      cfg.RequestIdentity(),
			RequestTimeout: cfg.Remote.RequestTimeout,
			MinInterval:    cfg.Remote.MinInterval,
		},
		FetchConcurrency: cfg.FetchConcurrency,
	}
	if cfg.Storage.Type == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	client, err := remote.New(cfg.Remote, cfg.HTTPClient, logger)
	if err != nil {
		return nil, err
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, client, clock.New(), cfg.FetchConcurrency, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeFile:
		if cfg.DataDir == "" {
			return nil, errors.New("DataDir required when StorageType is file")
		}
		return file.New(cfg.DataDir)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'file' or 'redis'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, fetcher remote.Fetcher, clk clock.Clock, concurrency int, logger *slog.Logger) *App {
	archive := cache.New(store, fetcher, concurrency, logger)

	return &App{
		Storage: store,
		Clock:   clk,
		Remote:  fetcher,
		Cache:   archive,
		Scanner: scanner.New(archive, logger),
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
