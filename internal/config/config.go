// Package config loads peerassign settings from PEERASSIGN_* environment
// variables. Command-line flags override these values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/caarlos0/env/v11"
)

// Config holds process-wide settings.
type Config struct {
	// DBPath is the run history database. Empty means ~/.peerassign/peerassign.db.
	DBPath                string `env:"PEERASSIGN_DB"`
	AssignmentsPerStudent int    `env:"PEERASSIGN_K"            envDefault:"5"`
	StallFactor           int    `env:"PEERASSIGN_STALL_FACTOR" envDefault:"32"`
	Strategy              string `env:"PEERASSIGN_STRATEGY"     envDefault:"rejection"`
	Log                   bool   `env:"PEERASSIGN_LOG"          envDefault:"false"`
	NoColor               bool   `env:"PEERASSIGN_NO_COLOR"     envDefault:"false"`
}

// Load parses the environment and resolves the default database path.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".peerassign", "peerassign.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the allocator would refuse later anyway.
func (c Config) Validate() error {
	if c.AssignmentsPerStudent < 1 {
		return fmt.Errorf("PEERASSIGN_K must be at least 1, got %d", c.AssignmentsPerStudent)
	}
	if c.StallFactor < 1 {
		return fmt.Errorf("PEERASSIGN_STALL_FACTOR must be at least 1, got %d", c.StallFactor)
	}
	if !domain.ValidStrategies[c.Strategy] {
		return fmt.Errorf("PEERASSIGN_STRATEGY %q is not one of rejection, flow", c.Strategy)
	}
	return nil
}
