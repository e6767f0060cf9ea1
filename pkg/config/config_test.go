package config

import (
	"errors"
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
		EnvAPIKey, EnvAPISecret, EnvBaseURL, EnvTimeout, EnvLogLevel, EnvLogFile,
		EnvSecretPath, EnvSecretKey, EnvListen, EnvRateLimit,
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "logs/trading_bot.log", cfg.Log.File)
	assert.Equal(t, 5, cfg.Log.MaxSizeMB)
	assert.Equal(t, 2, cfg.Log.MaxBackups)
	assert.True(t, cfg.RateLimit)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://fapi.example.com
timeout_seconds: 3
rate_limit: false
log:
  level: debug
  file: /tmp/bot.log
secret_store:
  path: data/secrets
server:
  listen: 127.0.0.1:9000
`), 0o600))

	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvAPIKey, " key ")
	t.Setenv(EnvAPISecret, "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://fapi.example.com", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.False(t, cfg.RateLimit)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/bot.log", cfg.Log.File)
	assert.Equal(t, "data/secrets", cfg.SecretStore.Path)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, "key", cfg.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoadJSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_url":"http://localhost:1234","log":{"level":"error"}}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1234", cfg.BaseURL)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bot.toml")
	require.NoError(t, os.WriteFile(path, []byte(`x = 1`), 0o600))
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type stubLoader struct {
	key, secret string
	ok          bool
	err         error
	calls       int
}

func (s *stubLoader) LoadCredentials() (string, string, bool, error) {
	s.calls++
	return s.key, s.secret, s.ok, s.err
}

func TestFillCredentials(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		cfg := &Config{APIKey: "env-key", APISecret: "env-secret"}
		src := &stubLoader{key: "k", secret: "s", ok: true}
		require.NoError(t, cfg.FillCredentials(src))
		assert.Equal(t, "env-key", cfg.APIKey)
		assert.Zero(t, src.calls)
	})

	t.Run("store fills the gap", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.FillCredentials(&stubLoader{key: "k", secret: "s", ok: true}))
		assert.Equal(t, "k", cfg.APIKey)
		assert.Equal(t, "s", cfg.APISecret)
	})

	t.Run("store error surfaces", func(t *testing.T) {
		cfg := &Config{}
		boom := errors.New("boom")
		err := cfg.FillCredentials(&stubLoader{err: boom})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil source is a no-op", func(t *testing.T) {
		cfg := &Config{}
		assert.NoError(t, cfg.FillCredentials(nil))
	})
}
