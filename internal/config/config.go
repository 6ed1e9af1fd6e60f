// Package config loads chessarchive settings. Values are resolved from
// defaults, then an optional YAML file, then CHESSARCHIVE_* environment
// variables, and are validated last.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/chessarchive/internal/model"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "CHESSARCHIVE_"

// MinRequestInterval is the smallest delay allowed between remote calls
const MinRequestInterval = 500 * time.Millisecond

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// Config is the full application configuration
type Config struct {
	// UserAgent is sent verbatim when set, otherwise Identity is rendered
	UserAgent string   `yaml:"user_agent"`
	Identity  Identity `yaml:"identity"`

	Remote  RemoteConfig  `yaml:"remote"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`

	// FetchConcurrency bounds parallel month fetches
	FetchConcurrency int `yaml:"fetch_concurrency"`
}

// Identity names the person responsible for the requests
type Identity struct {
	Username string `yaml:"username" json:"username"`
	Email    string `yaml:"email" json:"email"`
	// File is a JSON file holding username and email
	File string `yaml:"file" json:"-"`
}

// RemoteConfig holds remote archive API settings
type RemoteConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MinInterval    time.Duration `yaml:"min_interval"`
}

// StorageConfig selects and configures the cache backend
type StorageConfig struct {
	Type     string `yaml:"type"`
	DataDir  string `yaml:"data_dir"`
	RedisURL string `yaml:"redis_url"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Remote: RemoteConfig{
			BaseURL:        "https://api.chess.com/pub",
			RequestTimeout: 30 * time.Second,
			MinInterval:    MinRequestInterval,
		},
		Storage: StorageConfig{
			Type:    StorageTypeFile,
			DataDir: "json",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		FetchConcurrency: 4,
	}
}

// Load resolves the configuration. path may be empty; a named file that
// does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.loadIdentityFile(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + name)); v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(name string, dst *time.Duration) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + name)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}
	num := func(name string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + name)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("USER_AGENT", &c.UserAgent)
	str("USERNAME", &c.Identity.Username)
	str("EMAIL", &c.Identity.Email)
	str("IDENTITY_FILE", &c.Identity.File)
	str("BASE_URL", &c.Remote.BaseURL)
	dur("REQUEST_TIMEOUT", &c.Remote.RequestTimeout)
	dur("MIN_INTERVAL", &c.Remote.MinInterval)
	str("STORAGE", &c.Storage.Type)
	str("DATA_DIR", &c.Storage.DataDir)
	str("REDIS_URL", &c.Storage.RedisURL)
	str("HOST", &c.Server.Host)
	num("PORT", &c.Server.Port)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	num("FETCH_CONCURRENCY", &c.FetchConcurrency)

	return errors.Join(errs...)
}

// loadIdentityFile fills the identity from a user-agent JSON file
// ({"username": ..., "email": ...}) when one is configured.
func (c *Config) loadIdentityFile() error {
	if c.Identity.File == "" {
		return nil
	}
	data, err := os.ReadFile(c.Identity.File)
	if err != nil {
		return fmt.Errorf("read identity file: %w", err)
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("parse identity file %s: %w", c.Identity.File, err)
	}
	if c.Identity.Username == "" {
		c.Identity.Username = id.Username
	}
	if c.Identity.Email == "" {
		c.Identity.Email = id.Email
	}
	return nil
}

// RequestIdentity returns the User-Agent value sent to the remote
func (c Config) RequestIdentity() string {
	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		return ua
	}
	if c.Identity.Username == "" || c.Identity.Email == "" {
		return ""
	}
	return fmt.Sprintf("username: %s, email: %s", c.Identity.Username, c.Identity.Email)
}

// Validate checks the configuration. Every problem is reported.
func (c Config) Validate() error {
	var errs []error

	if c.RequestIdentity() == "" {
		errs = append(errs, fmt.Errorf("%w: set user_agent or identity.username and identity.email", model.ErrMissingIdentity))
	}
	if c.Remote.BaseURL == "" {
		errs = append(errs, errors.New("remote.base_url is required"))
	}
	if c.Remote.MinInterval < MinRequestInterval {
		errs = append(errs, fmt.Errorf("remote.min_interval must be at least %s", MinRequestInterval))
	}
	if c.Remote.RequestTimeout <= 0 {
		errs = append(errs, errors.New("remote.request_timeout must be positive"))
	}
	if c.FetchConcurrency < 1 {
		errs = append(errs, errors.New("fetch_concurrency must be at least 1"))
	}

	switch c.Storage.Type {
	case StorageTypeMemory:
	case StorageTypeFile:
		if c.Storage.DataDir == "" {
			errs = append(errs, errors.New("storage.data_dir is required for file storage"))
		}
	case StorageTypeRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, errors.New("storage.redis_url is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type %q must be memory, file or redis", c.Storage.Type))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}

	return errors.Join(errs...)
}
