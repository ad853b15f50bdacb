package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, 300*time.Second, cfg.Postgres.ConnMaxLifetime)
	assert.Empty(t, cfg.Tracing.Endpoint)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DISABLE_CALLER", "true")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "25")
	t.Setenv("POSTGRES_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3")

	cfg := LoadEnv()

	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.DisableCaller)
	assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 5, cfg.Postgres.MaxIdleConns, "invalid ints fall back to the default")
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestDevelopmentMode(t *testing.T) {
	t.Setenv("APP_ENV", "")
	os.Unsetenv("APP_ENV")

	cfg := LoadEnv()
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.False(t, cfg.Server.IsDevelopment(), "an unset APP_ENV must not enable development mode")

	testCases := []struct {
		appEnv   string
		expected bool
	}{
		{appEnv: "development", expected: true},
		{appEnv: "dev", expected: false},
		{appEnv: "production", expected: false},
		{appEnv: "staging", expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.appEnv, func(t *testing.T) {
			assert.Equal(t, tc.expected, ServerConfig{AppEnv: tc.appEnv}.IsDevelopment())
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db",
		Port:     "5433",
		User:     "app",
		Password: "secret",
		DBName:   "shop",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=shop sslmode=disable", cfg.DSN())
}
