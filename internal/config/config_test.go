package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MATHQUIZ_ORIGIN", "MATHQUIZ_LISTEN", "MATHQUIZ_VERSION", "MATHQUIZ_WORKER_URL",
		"MATHQUIZ_CACHE_BACKEND", "MATHQUIZ_CACHE_PREFIX", "MATHQUIZ_NETWORK_TIMEOUT",
		"MATHQUIZ_DB", "MATHQUIZ_REDIS_ADDR", "MATHQUIZ_REDIS_PASSWORD", "MATHQUIZ_REDIS_DB",
		"MATHQUIZ_BANK", "MATHQUIZ_LOG_LEVEL", "MATHQUIZ_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MATHQUIZ_ORIGIN", "https://quiz.example")
	t.Setenv("MATHQUIZ_CACHE_BACKEND", "Redis")
	t.Setenv("MATHQUIZ_NETWORK_TIMEOUT", "1500ms")
	t.Setenv("MATHQUIZ_REDIS_DB", "3")
	t.Setenv("MATHQUIZ_WORKER_URL", "https://quiz.example/service-worker.js?v=21")
	t.Setenv("MATHQUIZ_LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://quiz.example", cfg.Origin)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 1500*time.Millisecond, cfg.Cache.NetworkTimeout)
	assert.Equal(t, 3, cfg.Cache.Redis.DB)
	assert.Equal(t, "21", cfg.ResolvedVersion())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_BadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MATHQUIZ_NETWORK_TIMEOUT", "soon")
	_, err := FromEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("MATHQUIZ_REDIS_DB", "zero")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Backend = "dynamo"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Version = "not a version"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Cache.Backend = BackendRedis
	cfg.Cache.Redis.Addr = ""
	assert.Error(t, cfg.Validate())
}

func TestResolvedVersionPrefersExplicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = "v6"
	cfg.WorkerURL = "https://quiz.example/sw.js?v=5"
	assert.Equal(t, "v6", cfg.ResolvedVersion())
}

func TestBankURL(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "questions.json", cfg.BankURL())

	cfg.Origin = "https://quiz.example/app/"
	assert.Equal(t, "https://quiz.example/questions.json", cfg.BankURL())

	cfg.Bank = "https://cdn.example/bank/grade3.json"
	assert.Equal(t, "https://cdn.example/bank/grade3.json", cfg.BankURL())
	assert.Equal(t, "grade3.json", cfg.BankFile())
}

func TestOriginURL(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.OriginURL()
	assert.Error(t, err)

	cfg.Origin = "ftp://quiz.example"
	_, err = cfg.OriginURL()
	assert.Error(t, err)

	cfg.Origin = "http://localhost:3000"
	u, err := cfg.OriginURL()
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", u.Host)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("MATHQUIZ_VERSION")
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MATHQUIZ_VERSION=v9\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "v9", cfg.Version)

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
