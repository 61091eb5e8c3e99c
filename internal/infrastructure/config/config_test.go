package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "burnrate.db", cfg.Database.Path)
	assert.Equal(t, 25, cfg.Database.Pool.MaxOpen)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Tick.Interval)
	assert.Equal(t, 100, cfg.Tick.WebhookBatch)
	assert.Equal(t, 4, cfg.Season.LengthWeeks)
	assert.Equal(t, 48, cfg.World.ZoneCount)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Tick.Interval = time.Minute
	cfg.World.ZoneCount = 12
	SetDefaults(cfg)

	assert.Equal(t, time.Minute, cfg.Tick.Interval)
	assert.Equal(t, 12, cfg.World.ZoneCount)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	require.NoError(t, ValidateConfig(cfg))

	cfg.World.ZoneCount = 3
	cfg.Tick.WebhookBatch = 0
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "World.ZoneCount")
	assert.Contains(t, err.Error(), "Tick.WebhookBatch", "all violations report at once")
}

func TestTickConfig_TicksPerDay(t *testing.T) {
	assert.Equal(t, int64(144), TickConfig{Interval: 10 * time.Minute}.TicksPerDay())
	assert.Equal(t, int64(86400), TickConfig{Interval: time.Second}.TicksPerDay())
	assert.Equal(t, int64(1), TickConfig{Interval: 48 * time.Hour}.TicksPerDay(), "floors at one")
	assert.Equal(t, int64(1), TickConfig{}.TicksPerDay(), "zero interval never divides")
}

func TestSeasonConfig_LengthTicks(t *testing.T) {
	assert.Equal(t, int64(4032), SeasonConfig{LengthWeeks: 4}.LengthTicks(144))
	assert.Zero(t, SeasonConfig{}.LengthTicks(144), "zero weeks means seasons never roll")
}

func TestLoadConfig_DatabaseURLOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://game:game@db:5432/burnrate")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://game:game@db:5432/burnrate", cfg.Database.URL)
	assert.Equal(t, 10*time.Minute, cfg.Tick.Interval, "everything else stays at defaults")
}

func TestLoadConfig_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	require.NoError(t, os.WriteFile(path, []byte(
		"tick:\n  interval: 30s\nlogging:\n  level: debug\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Tick.Interval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
