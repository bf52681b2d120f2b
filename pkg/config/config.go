package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
)

// Load reads and validates a configuration file.
// An empty path yields the default layout, still subject to environment
// overrides and validation.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if cfg.HeaderLines < 0 {
		return errors.New("header_lines: must be >= 0")
	}

	if err := cfg.Columns.ParserColumns().Validate(); err != nil {
		return fmt.Errorf("columns: %w", err)
	}

	if _, err := compare.ParseAlignment(cfg.Alignment); err != nil {
		return fmt.Errorf("alignment: %w", err)
	}

	return nil
}

// Marshal renders a configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
