package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBaseEnv выставляет обязательные переменные и очищает остальные.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tournaments?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	for _, key := range []string{
		"SERVER_PORT", "DB_CONNECT_TIMEOUT", "DISTRIBUTOR_SEED", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Nil(t, cfg.DistributorSeed)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoad_RequiredVariables(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET_KEY"} {
		t.Run(key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(key, "")

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_CONNECT_TIMEOUT", "750ms")
	t.Setenv("DISTRIBUTOR_SEED", "-17")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example.com, ,https://admin.example.com ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 750*time.Millisecond, cfg.DBConnectTimeout)
	require.NotNil(t, cfg.DistributorSeed)
	assert.Equal(t, int64(-17), *cfg.DistributorSeed)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SERVER_PORT", "http"},
		{"SERVER_PORT", "0"},
		{"SERVER_PORT", "70000"},
		{"DB_CONNECT_TIMEOUT", "5"},
		{"DB_CONNECT_TIMEOUT", "-1s"},
		{"DISTRIBUTOR_SEED", "abc"},
		{"LOG_LEVEL", "trace"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			require.Error(t, err)
		})
	}
}

func TestLoad_R2(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("R2_ACCOUNT_ID", "acc")
		t.Setenv("R2_ACCESS_KEY_ID", "key")
		t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
		t.Setenv("R2_BUCKET_NAME", "logos")
		t.Setenv("R2_PUBLIC_BASE_URL", "https://cdn.example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.R2.Enabled())
		assert.Equal(t, "logos", cfg.R2.BucketName)
	})

	t.Run("partial", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("R2_ACCOUNT_ID", "acc")
		t.Setenv("R2_BUCKET_NAME", "logos")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incomplete R2 configuration")
	})
}
