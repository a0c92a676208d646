package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": "9090"},
		"database": {"driver": "memory"},
		"game": {"max_weeks": 26, "seed": 42}
	}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 26, cfg.Game.MaxWeeks)
	assert.Equal(t, int64(42), cfg.Game.Seed)

	// Untouched fields keep their defaults
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, DefaultGameConfig().DebtLimit, cfg.Game.DebtLimit)
	assert.Equal(t, DefaultGameConfig().TaxBrackets, cfg.Game.TaxBrackets)
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.WhatsApp.Enabled = true
	cfg.Game.HistoryLimit = 5

	require.NoError(t, SaveConfig(cfg, path))
	back, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestDefaultGameConfig(t *testing.T) {
	rules := DefaultGameConfig()
	assert.Equal(t, 52, rules.MaxWeeks)
	assert.Equal(t, 20, rules.AttributePoints)
	assert.Equal(t, 10, rules.UnlockWeek)
	assert.Equal(t, 20, rules.HistoryLimit)
	assert.Equal(t, 10, rules.LegacyDivisor)
}
