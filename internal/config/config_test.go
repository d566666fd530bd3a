package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://www.bankofcanada.ca/valet/observations", cfg.RateProvider.BaseURL)
	assert.True(t, cfg.RateProvider.Cache)
	assert.Equal(t, "DLR.U", cfg.Gambit.USDTicker)
	assert.Equal(t, "DLR", cfg.Gambit.CADTicker)
	assert.Empty(t, cfg.Aliases)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capgains.yaml")

	cfg := Default()
	cfg.RateProvider.BaseURL = "http://localhost:9999/valet"
	cfg.RateProvider.Cache = false
	cfg.Aliases = map[string]string{"DLR.U": "DLR"}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capgains.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_provider: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}
