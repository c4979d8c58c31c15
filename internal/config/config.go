// Package config reads the CERMAT_* environment, optionally seeded from a
// .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/cermat/internal/hearts"
	"github.com/abhisek/cermat/internal/quiz"
	"github.com/abhisek/cermat/internal/redisstore"
	"github.com/abhisek/cermat/internal/store"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config is the runtime configuration.
type Config struct {
	Store  string
	DBPath string // empty means the XDG default
	Redis  redisstore.Config

	LogFormat string // text or json
	LogLevel  slog.Level

	RegenInterval time.Duration
	SummaryDelay  time.Duration
}

// Load reads .env (if present) and the environment. Variables already set
// in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	redisCfg := redisstore.DefaultConfig()
	redisCfg.Addr = getEnv("CERMAT_REDIS_ADDR", redisCfg.Addr)
	redisCfg.Password = getEnv("CERMAT_REDIS_PASSWORD", redisCfg.Password)
	redisCfg.DB = getEnvInt("CERMAT_REDIS_DB", redisCfg.DB)

	cfg := &Config{
		Store:         strings.ToLower(getEnv("CERMAT_STORE", StoreSQLite)),
		DBPath:        getEnv("CERMAT_DB", ""),
		Redis:         redisCfg,
		LogFormat:     strings.ToLower(getEnv("CERMAT_LOG_FORMAT", "text")),
		RegenInterval: getEnvDuration("CERMAT_HEART_INTERVAL", hearts.DefaultInterval),
		SummaryDelay:  getEnvDuration("CERMAT_SUMMARY_DELAY", quiz.DefaultSummaryDelay),
	}

	level, err := parseLevel(getEnv("CERMAT_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []string

	switch c.Store {
	case StoreSQLite:
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, "CERMAT_REDIS_ADDR is required for the redis store")
		}
	default:
		errs = append(errs, fmt.Sprintf("CERMAT_STORE must be %q or %q, got %q", StoreSQLite, StoreRedis, c.Store))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, "CERMAT_LOG_FORMAT must be text or json")
	}
	if c.RegenInterval <= 0 {
		errs = append(errs, "CERMAT_HEART_INTERVAL must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ResolveDBPath returns the SQLite path, creating its directory.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath == "" {
		return store.DefaultDBPath()
	}
	return c.DBPath, store.EnsureDir(c.DBPath)
}

// Logger builds the process logger.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}

	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("CERMAT_LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
