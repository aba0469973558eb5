package app

import (
	"errors"
	"fmt"

	"github.com/vk/partgrid/internal/contract"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulesPath string   // root the filesystem loader resolves names against
	Modules     []string // module names to compose
	Exports     []string // contracts to resolve after composing

	LogFormat      string
	LogLevel       string
	IntrospectPort int
	Workers        int // discovery concurrency, 0 is unbounded
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModulesPath == "" {
		return nil, errors.New("ModulesPath is a required configuration field and cannot be empty")
	}
	if len(cfg.Modules) == 0 {
		return nil, errors.New("at least one module name is required")
	}
	for _, e := range cfg.Exports {
		if _, err := contract.Parse(e); err != nil {
			return nil, fmt.Errorf("invalid export %q: %w", e, err)
		}
	}
	if cfg.Workers < 0 {
		return nil, errors.New("Workers cannot be negative")
	}
	return &cfg, nil
}
