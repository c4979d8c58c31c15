package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "none.env")
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CERMAT_STORE", "CERMAT_DB", "CERMAT_REDIS_ADDR", "CERMAT_REDIS_PASSWORD", "CERMAT_REDIS_DB",
		"CERMAT_LOG_FORMAT", "CERMAT_LOG_LEVEL", "CERMAT_HEART_INTERVAL", "CERMAT_SUMMARY_DELAY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnv(t))
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.RegenInterval)
	assert.Equal(t, 2500*time.Millisecond, cfg.SummaryDelay)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CERMAT_STORE", "Redis")
	t.Setenv("CERMAT_REDIS_ADDR", "cache:6380")
	t.Setenv("CERMAT_REDIS_DB", "3")
	t.Setenv("CERMAT_LOG_FORMAT", "json")
	t.Setenv("CERMAT_LOG_LEVEL", "debug")
	t.Setenv("CERMAT_HEART_INTERVAL", "30s")

	cfg, err := Load(missingEnv(t))
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RegenInterval)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CERMAT_LOG_FORMAT", "json")
	// An empty variable still counts as set for godotenv. The t.Setenv
	// cleanup in clearEnv restores the value after the test.
	os.Unsetenv("CERMAT_DB")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CERMAT_DB=/tmp/from-dotenv.db\nCERMAT_LOG_FORMAT=text\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown store", Config{Store: "mongo", LogFormat: "text", RegenInterval: time.Minute}, "CERMAT_STORE"},
		{"redis without addr", Config{Store: StoreRedis, LogFormat: "text", RegenInterval: time.Minute}, "CERMAT_REDIS_ADDR"},
		{"bad log format", Config{Store: StoreSQLite, LogFormat: "xml", RegenInterval: time.Minute}, "CERMAT_LOG_FORMAT"},
		{"zero interval", Config{Store: StoreSQLite, LogFormat: "text"}, "CERMAT_HEART_INTERVAL"},
		{"valid", Config{Store: StoreSQLite, LogFormat: "json", RegenInterval: time.Minute}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBadLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("CERMAT_LOG_LEVEL", "loud")
	_, err := Load(missingEnv(t))
	assert.ErrorContains(t, err, "CERMAT_LOG_LEVEL")
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogFormat: "json", LogLevel: slog.LevelWarn}
	log := cfg.Logger(&buf)

	log.Info("hidden")
	log.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "json output: %s", out)
}

func TestResolveDBPathCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := &Config{DBPath: filepath.Join(dir, "c.db")}

	p, err := cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, cfg.DBPath, p)
	assert.DirExists(t, dir)
}
