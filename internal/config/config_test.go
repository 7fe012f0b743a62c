package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"EMITTER_WILDCARD", "EMITTER_DELIMITER", "EMITTER_MAX_LISTENERS",
		"REDIS_URL", "LOG_LEVEL", "LOG_FORMAT", "METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Emitter.Wildcard)
	assert.Equal(t, ".", cfg.Emitter.Delimiter)
	assert.Equal(t, 10, cfg.Emitter.MaxListeners)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMITTER_WILDCARD", "false")
	t.Setenv("EMITTER_DELIMITER", ":")
	t.Setenv("EMITTER_MAX_LISTENERS", "0")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Emitter.Wildcard)
	assert.Equal(t, ":", cfg.Emitter.Delimiter)
	assert.Equal(t, 0, cfg.Emitter.MaxListeners)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.MetricsAddr)

	settings := cfg.EmitterSettings()
	assert.False(t, settings.Wildcard)
	assert.Equal(t, ":", settings.Delimiter)
	assert.Equal(t, 0, settings.MaxListeners)
}

func TestLoad_IgnoresUnparseableValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMITTER_WILDCARD", "maybe")
	t.Setenv("EMITTER_MAX_LISTENERS", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Emitter.Wildcard)
	assert.Equal(t, 10, cfg.Emitter.MaxListeners)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "negative max listeners", key: "EMITTER_MAX_LISTENERS", val: "-1"},
		{name: "wildcard delimiter", key: "EMITTER_DELIMITER", val: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
