package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-navigator/internal/geocoding"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("NOMINATIM_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GoogleMapsAPIKey)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr)
	assert.Equal(t, "field-navigator.db", cfg.DatabasePath)
	assert.Equal(t, geocoding.DefaultBaseURL, cfg.NominatimBaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	t.Setenv("SERVER_ADDR", "0.0.0.0:9090")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("NOMINATIM_BASE_URL", "http://localhost:8088")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, "http://localhost:8088", cfg.NominatimBaseURL)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_MAPS_API_KEY")
}
