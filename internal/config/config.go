package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/guischmitd/piratesim2024/pkg/game"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

// Prefix is prepended to every environment variable name.
const Prefix = "PIRATESIM_"

type Config struct {
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// LogFile is where the terminal UI logs, since it owns the screen.
	LogFile string `env:"LOG_FILE"`

	// Seed 0 picks a random seed at load time.
	Seed            int64   `env:"SEED" envDefault:"0"`
	Gold            int     `env:"GOLD" envDefault:"500"`
	MaxNotoriety    int     `env:"MAX_NOTORIETY" envDefault:"30"`
	QuestsPerTurn   int     `env:"QUESTS_PER_TURN" envDefault:"2"`
	CrewSize        int     `env:"CREW_SIZE" envDefault:"3"`
	WorldMap        bool    `env:"WORLD_MAP" envDefault:"true"`
	QuestsToSpawn   int     `env:"QUESTS_TO_SPAWN" envDefault:"4"`
	EncounterChance float64 `env:"ENCOUNTER_CHANCE" envDefault:"0.1"`
	MaxRuns         int     `env:"MAX_RUNS" envDefault:"0"`

	// ContentDir replaces the embedded content bank when set.
	ContentDir string `env:"CONTENT_DIR"`
	// RedisURL enables the Redis narration sink when set.
	RedisURL string `env:"REDIS_URL"`

	SimulationRuns    int `env:"SIMULATION_RUNS" envDefault:"100"`
	SimulationWorkers int `env:"SIMULATION_WORKERS" envDefault:"4"`
	SimulationTurns   int `env:"SIMULATION_MAX_TURNS" envDefault:"200"`
}

// Load reads the PIRATESIM_* environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: Prefix})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		if cfg.Seed, err = randomSeed(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Validate rejects settings no run can start with.
func (c *Config) Validate() error {
	switch {
	case c.MaxNotoriety < 1:
		return fmt.Errorf("%sMAX_NOTORIETY must be positive, got %d", Prefix, c.MaxNotoriety)
	case c.QuestsPerTurn < 0:
		return fmt.Errorf("%sQUESTS_PER_TURN must not be negative, got %d", Prefix, c.QuestsPerTurn)
	case c.CrewSize < 1:
		return fmt.Errorf("%sCREW_SIZE must be positive, got %d", Prefix, c.CrewSize)
	case c.EncounterChance < 0 || c.EncounterChance > 1:
		return fmt.Errorf("%sENCOUNTER_CHANCE must be between 0 and 1, got %g", Prefix, c.EncounterChance)
	case c.SimulationWorkers < 1:
		return fmt.Errorf("%sSIMULATION_WORKERS must be positive, got %d", Prefix, c.SimulationWorkers)
	}
	return nil
}

// RunOptions maps the config onto a single run.
func (c *Config) RunOptions() run.Options {
	return run.Options{
		Seed:            c.Seed,
		Gold:            c.Gold,
		MaxNotoriety:    c.MaxNotoriety,
		QuestsPerTurn:   c.QuestsPerTurn,
		WorldMap:        c.WorldMap,
		QuestsToSpawn:   c.QuestsToSpawn,
		EncounterChance: c.EncounterChance,
		Level:           1,
	}
}

// GameOptions maps the config onto a game of several runs.
func (c *Config) GameOptions(logger *slog.Logger) game.Options {
	return game.Options{
		Run:      c.RunOptions(),
		CrewSize: c.CrewSize,
		MaxRuns:  c.MaxRuns,
		Logger:   logger,
	}
}

func randomSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to draw a random seed: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}
