package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setProductionEnv keeps Load from reading a stray .env file.
func setProductionEnv(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	setProductionEnv(t)
	for _, k := range []string{"PORT", "DATABASE_URL", "REDIS_URL", "CACHE_TTL", "ANNOUNCEMENT_INTERVAL",
		"TASK_MAX_ATTEMPTS", "REQUEST_TIMEOUT", "EMAIL_PROVIDER", "CORS_ALLOWED_ORIGINS", "SES_INSECURE_SKIP_VERIFY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Contains(t, cfg.DBUrl, "conferencecentral")
	assert.Empty(t, cfg.RedisURL)
	assert.Zero(t, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.AnnouncementInterval)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.TaskMaxAttempts)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.Email.SESInsecureSkipVerify)
}

func TestLoad_Overrides(t *testing.T) {
	setProductionEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("ANNOUNCEMENT_INTERVAL", "5m")
	t.Setenv("TASK_MAX_ATTEMPTS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("EMAIL_PROVIDER", "ses")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("SES_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.AnnouncementInterval)
	assert.Equal(t, 3, cfg.TaskMaxAttempts)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, "eu-west-1", cfg.Email.AWSRegion)
	assert.True(t, cfg.Email.SESInsecureSkipVerify)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "CACHE_TTL", "soon"},
		{"zero interval", "ANNOUNCEMENT_INTERVAL", "0s"},
		{"bad attempts", "TASK_MAX_ATTEMPTS", "many"},
		{"zero attempts", "TASK_MAX_ATTEMPTS", "0"},
		{"bad bool", "SES_INSECURE_SKIP_VERIFY", "maybe"},
		{"missing secret", "JWT_SECRET", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setProductionEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	buf.Reset()
	newLogger(&buf, "development", "bogus").Debug("dropped")
	assert.Empty(t, buf.String())
	assert.True(t, newLogger(&buf, "development", "DEBUG").Enabled(t.Context(), slog.LevelDebug))
}
