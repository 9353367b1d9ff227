// Package config resolves runtime settings from MATHQUIZ_* environment
// variables, optionally loaded from a .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/mathquiz/internal/offline"
	"github.com/abhisek/mathquiz/internal/questions"
)

// Cache backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all mathquiz configuration.
type Config struct {
	// Origin is the static site serving the app shell and question bank.
	// Empty means the bank is read from the local filesystem.
	Origin string

	// Listen is the address of the offline proxy. Default: "127.0.0.1:8080".
	Listen string

	// Version is the cache version token. When empty it is taken from
	// WorkerURL's v parameter.
	Version   string
	WorkerURL string

	Cache CacheConfig

	// Bank is a path or URL of the question bank. Default: "questions.json".
	Bank string

	Log LogConfig
}

// CacheConfig selects and configures the cache store backend.
type CacheConfig struct {
	Backend        string // sqlite, redis or memory. Default: sqlite
	Prefix         string // Default: "math-quiz"
	NetworkTimeout time.Duration

	// DB is the SQLite path. Empty means the default XDG cache location.
	DB string

	Redis RedisConfig
}

// RedisConfig holds the shared cache connection.
type RedisConfig struct {
	Addr     string // Default: "localhost:6379"
	Password string
	DB       int
}

// LogConfig configures logging.
type LogConfig struct {
	Level string // debug, info, warn or error. Default: info
	File  string // Optional JSON log file
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Listen: "127.0.0.1:8080",
		Cache: CacheConfig{
			Backend:        BackendSQLite,
			Prefix:         offline.DefaultPrefix,
			NetworkTimeout: offline.DefaultNetworkTimeout,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Bank: questions.DefaultBankFile,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("MATHQUIZ_ORIGIN"); v != "" {
		cfg.Origin = v
	}
	if v := os.Getenv("MATHQUIZ_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("MATHQUIZ_VERSION"); v != "" {
		cfg.Version = v
	}
	if v := os.Getenv("MATHQUIZ_WORKER_URL"); v != "" {
		cfg.WorkerURL = v
	}
	if v := os.Getenv("MATHQUIZ_BANK"); v != "" {
		cfg.Bank = v
	}

	if v := os.Getenv("MATHQUIZ_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("MATHQUIZ_CACHE_PREFIX"); v != "" {
		cfg.Cache.Prefix = v
	}
	if v := os.Getenv("MATHQUIZ_NETWORK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("MATHQUIZ_NETWORK_TIMEOUT: %w", err)
		}
		cfg.Cache.NetworkTimeout = d
	}
	if v := os.Getenv("MATHQUIZ_DB"); v != "" {
		cfg.Cache.DB = v
	}

	if v := os.Getenv("MATHQUIZ_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("MATHQUIZ_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("MATHQUIZ_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("MATHQUIZ_REDIS_DB: %w", err)
		}
		cfg.Cache.Redis.DB = n
	}

	if v := os.Getenv("MATHQUIZ_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MATHQUIZ_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	return cfg, nil
}

// ResolvedVersion returns the version token, preferring Version over the
// worker script URL.
func (c Config) ResolvedVersion() string {
	if c.Version != "" {
		return c.Version
	}
	return offline.VersionFromScriptURL(c.WorkerURL)
}

// OriginURL parses Origin.
func (c Config) OriginURL() (*url.URL, error) {
	if c.Origin == "" {
		return nil, errors.New("MATHQUIZ_ORIGIN is required")
	}
	u, err := url.Parse(c.Origin)
	if err != nil {
		return nil, fmt.Errorf("MATHQUIZ_ORIGIN: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("MATHQUIZ_ORIGIN: unsupported scheme %q", u.Scheme)
	}
	return u, nil
}

// BankURL returns the bank location. A relative bank path is resolved
// against Origin when one is configured.
func (c Config) BankURL() string {
	if c.Origin == "" || strings.Contains(c.Bank, "://") {
		return c.Bank
	}
	base, err := c.OriginURL()
	if err != nil {
		return c.Bank
	}
	ref, err := url.Parse(c.Bank)
	if err != nil {
		return c.Bank
	}
	if !strings.HasPrefix(ref.Path, "/") {
		ref.Path = "/" + ref.Path
	}
	return base.ResolveReference(ref).String()
}

// BankFile is the base filename of the bank, used to classify requests.
func (c Config) BankFile() string {
	name := c.Bank
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return questions.DefaultBankFile
	}
	return name
}

// Validate checks that the selected backend and version are usable.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("MATHQUIZ_REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	if c.Cache.NetworkTimeout <= 0 {
		return fmt.Errorf("network timeout must be positive, got %s", c.Cache.NetworkTimeout)
	}
	if v := c.ResolvedVersion(); v != "" {
		if _, err := offline.NormalizeVersion(v); err != nil {
			return err
		}
	}
	return nil
}
