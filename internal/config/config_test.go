package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/chessarchive/internal/config"
	"github.com/mcoot/chessarchive/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultsNeedIdentity(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Remote.MinInterval)
	assert.Equal(t, config.StorageTypeFile, cfg.Storage.Type)
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.ErrorIs(t, cfg.Validate(), model.ErrMissingIdentity)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
identity:
  username: alice
  email: alice@example.com
remote:
  request_timeout: 5s
  min_interval: 750ms
storage:
  type: redis
  redis_url: redis://localhost:6379/0
fetch_concurrency: 2
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "username: alice, email: alice@example.com", cfg.RequestIdentity())
	assert.Equal(t, 5*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, 750*time.Millisecond, cfg.Remote.MinInterval)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.RedisURL)
	assert.Equal(t, 2, cfg.FetchConcurrency)
	assert.Equal(t, "https://api.chess.com/pub", cfg.Remote.BaseURL)
}

func TestMissingFileIsError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "user_agent: from-file\nstorage:\n  data_dir: /tmp/a\n")
	t.Setenv("CHESSARCHIVE_USER_AGENT", "from-env")
	t.Setenv("CHESSARCHIVE_DATA_DIR", "/tmp/b")
	t.Setenv("CHESSARCHIVE_MIN_INTERVAL", "2s")
	t.Setenv("CHESSARCHIVE_PORT", "9090")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.RequestIdentity())
	assert.Equal(t, "/tmp/b", cfg.Storage.DataDir)
	assert.Equal(t, 2*time.Second, cfg.Remote.MinInterval)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInvalidEnvValue(t *testing.T) {
	t.Setenv("CHESSARCHIVE_REQUEST_TIMEOUT", "soon")

	_, err := config.Load("")
	assert.ErrorContains(t, err, "CHESSARCHIVE_REQUEST_TIMEOUT")
}

func TestIdentityFile(t *testing.T) {
	path := writeFile(t, "user-agent.json", `{"username": "bob", "email": "bob@example.com"}`)
	t.Setenv("CHESSARCHIVE_IDENTITY_FILE", path)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "username: bob, email: bob@example.com", cfg.RequestIdentity())
}

func TestUserAgentWinsOverIdentity(t *testing.T) {
	cfg := config.Default()
	cfg.UserAgent = "custom agent"
	cfg.Identity = config.Identity{Username: "bob", Email: "bob@example.com"}
	assert.Equal(t, "custom agent", cfg.RequestIdentity())
}

func TestValidateRejectsShortInterval(t *testing.T) {
	cfg := config.Default()
	cfg.UserAgent = "agent"
	cfg.Remote.MinInterval = 100 * time.Millisecond

	assert.ErrorContains(t, cfg.Validate(), "min_interval")
}

func TestValidateStorage(t *testing.T) {
	cfg := config.Default()
	cfg.UserAgent = "agent"

	cfg.Storage = config.StorageConfig{Type: config.StorageTypeRedis}
	assert.ErrorContains(t, cfg.Validate(), "redis_url")

	cfg.Storage = config.StorageConfig{Type: config.StorageTypeFile}
	assert.ErrorContains(t, cfg.Validate(), "data_dir")

	cfg.Storage = config.StorageConfig{Type: "sqlite"}
	assert.ErrorContains(t, cfg.Validate(), "sqlite")

	cfg.Storage = config.StorageConfig{Type: config.StorageTypeMemory}
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Format = "xml"
	cfg.FetchConcurrency = 0

	err := cfg.Validate()
	assert.ErrorIs(t, err, model.ErrMissingIdentity)
	assert.ErrorContains(t, err, "log.format")
	assert.ErrorContains(t, err, "fetch_concurrency")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := config.LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}
