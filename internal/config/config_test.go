package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.NotZero(t, cfg.Seed, "seed 0 is replaced by a random seed")
	assert.Equal(t, 500, cfg.Gold)
	assert.Equal(t, 30, cfg.MaxNotoriety)
	assert.Equal(t, 2, cfg.QuestsPerTurn)
	assert.True(t, cfg.WorldMap)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PIRATESIM_SEED", "42")
	t.Setenv("PIRATESIM_LOG_LEVEL", "debug")
	t.Setenv("PIRATESIM_WORLD_MAP", "false")
	t.Setenv("PIRATESIM_ENCOUNTER_CHANCE", "0.25")
	t.Setenv("PIRATESIM_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.WorldMap)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)

	opts := cfg.RunOptions()
	assert.Equal(t, int64(42), opts.Seed)
	assert.InDelta(t, 0.25, opts.EncounterChance, 1e-9)
	assert.False(t, opts.WorldMap)

	g := cfg.GameOptions(slog.Default())
	assert.Equal(t, 3, g.CrewSize)
	assert.Equal(t, opts, g.Run)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"not a number", "PIRATESIM_GOLD", "lots"},
		{"zero notoriety", "PIRATESIM_MAX_NOTORIETY", "0"},
		{"negative quests", "PIRATESIM_QUESTS_PER_TURN", "-1"},
		{"chance above one", "PIRATESIM_ENCOUNTER_CHANCE", "1.5"},
		{"no workers", "PIRATESIM_SIMULATION_WORKERS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
