package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATABASE_DRIVER", "DATABASE_DSN", "JWT_SECRET", "SERVER_PORT", "LOG_LEVEL", "BOOTSTRAP_MANAGER_PASSWORD"} {
		t.Setenv(k, "")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  dsn: "host=db"
auth:
  jwt_secret: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 0, cfg.Server.PublicCacheTTLSeconds)
	assert.Equal(t, "silant", cfg.Auth.Issuer)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: postgres
  dsn: "host=db"
auth:
  jwt_secret: from-file
`)
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		body string
		env  map[string]string
	}{
		{
			name: "missing jwt secret",
			body: "database:\n  dsn: x\n",
		},
		{
			name: "missing dsn",
			body: "auth:\n  jwt_secret: s\n",
		},
		{
			name: "unknown driver",
			body: "database:\n  driver: mysql\n  dsn: x\nauth:\n  jwt_secret: s\n",
		},
		{
			name: "bootstrap user without password",
			body: "database:\n  dsn: x\nauth:\n  jwt_secret: s\nbootstrap:\n  manager_username: admin\n",
		},
		{
			name: "bad port override",
			body: "database:\n  dsn: x\nauth:\n  jwt_secret: s\n",
			env:  map[string]string{"SERVER_PORT": "eighty"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
