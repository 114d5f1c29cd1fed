package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GATEWAY_PRIMARY__ENV", "test")
	t.Setenv("GATEWAY_SERVER__PORT", "8080")
	t.Setenv("GATEWAY_SERVER__READ_TIMEOUT", "15s")
	t.Setenv("GATEWAY_SERVER__WRITE_TIMEOUT", "15s")
	t.Setenv("GATEWAY_SERVER__IDLE_TIMEOUT", "60s")
	t.Setenv("GATEWAY_DATABASE__HOST", "localhost")
	t.Setenv("GATEWAY_DATABASE__PORT", "5432")
	t.Setenv("GATEWAY_DATABASE__USER", "gateway")
	t.Setenv("GATEWAY_DATABASE__PASSWORD", "secret")
	t.Setenv("GATEWAY_DATABASE__NAME", "datagrid")
	t.Setenv("GATEWAY_DATABASE__SSL_MODE", "disable")
	t.Setenv("GATEWAY_DATABASE__MAX_OPEN_CONNS", "20")
	t.Setenv("GATEWAY_DATABASE__MAX_IDLE_CONNS", "5")
	t.Setenv("GATEWAY_DATABASE__CONN_MAX_LIFETIME", "30m")
	t.Setenv("GATEWAY_DATABASE__CONN_MAX_IDLE_TIME", "5m")
	t.Setenv("GATEWAY_AUTH__ADMIN_ACCOUNTS", "ops-admin")
	t.Setenv("GATEWAY_WORKER__INTERVAL", "1m")
	t.Setenv("GATEWAY_WORKER__BATCH_SIZE", "500")
}

func TestLoadConfig_FromEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, []string{"ops-admin"}, cfg.Auth.AdminAccounts)
	assert.Equal(t, time.Minute, cfg.Worker.Interval)
	assert.Equal(t, 500, cfg.Worker.BatchSize)
}

func TestLoadConfig_FileWithEnvOverride(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "gateway.json")
	content := `{
		"auth": {"admin_accounts": ["root", "ops-admin"]},
		"logger": {"level": "debug"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("GATEWAY_CONFIG_FILE", path)
	t.Setenv("GATEWAY_LOGGER__LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// Environment variables win over the file.
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GATEWAY_DATABASE__HOST", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
