package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{
		"VIGILANT_API_KEY": "k",
	}))
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, ":8000", cfg.HTTPHostPort)
	assert.Empty(t, cfg.GRPCHostPort)
	assert.Equal(t, DBTypeFile, cfg.DBType)
	assert.Empty(t, cfg.DBPath)
	assert.False(t, cfg.RateLimitEnabled())
	assert.Zero(t, cfg.StaleAfter)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{
		"VIGILANT_API_KEY":        " k ",
		"PORT":                    "9000",
		"VIGILANT_GRPC_HOST_PORT": ":50051",
		"VIGILANT_DB_TYPE":        "memory",
		"VIGILANT_DB_PATH":        "/tmp/x.db",
		"VIGILANT_DEFAULT_RATE":   "2.5",
		"VIGILANT_DEFAULT_BURST":  "5",
		"VIGILANT_STALE_AFTER":    "90s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, ":9000", cfg.HTTPHostPort)
	assert.Equal(t, ":50051", cfg.GRPCHostPort)
	assert.Equal(t, DBTypeMemory, cfg.DBType)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.True(t, cfg.RateLimitEnabled())
	assert.Equal(t, 2.5, cfg.DefaultRate)
	assert.Equal(t, 5, cfg.DefaultBurst)
	assert.Equal(t, 90*time.Second, cfg.StaleAfter)

	cfg, err = LoadFrom(envOf(map[string]string{
		"VIGILANT_API_KEY":        "k",
		"PORT":                    "9000",
		"VIGILANT_HTTP_HOST_PORT": "127.0.0.1:8080",
		"VIGILANT_DEFAULT_RATE":   "1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPHostPort, "explicit address wins over PORT")
	assert.Equal(t, 1, cfg.DefaultBurst)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing api key", map[string]string{}},
		{"blank api key", map[string]string{"VIGILANT_API_KEY": "   "}},
		{"db type", map[string]string{"VIGILANT_API_KEY": "k", "VIGILANT_DB_TYPE": "postgres"}},
		{"rate", map[string]string{"VIGILANT_API_KEY": "k", "VIGILANT_DEFAULT_RATE": "fast"}},
		{"negative rate", map[string]string{"VIGILANT_API_KEY": "k", "VIGILANT_DEFAULT_RATE": "-1"}},
		{"burst", map[string]string{"VIGILANT_API_KEY": "k", "VIGILANT_DEFAULT_BURST": "1.5"}},
		{"stale after", map[string]string{"VIGILANT_API_KEY": "k", "VIGILANT_STALE_AFTER": "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(envOf(tt.env))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
