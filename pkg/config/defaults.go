package config

import (
	"os"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// Default values for configuration.
const (
	DefaultHeaderLines = parser.DefaultHeaderLines
	DefaultAlignment   = string(compare.AlignIndex)
)

// Environment variable names.
const (
	EnvAlignment = "NBODYDIFF_ALIGN"
)

// DefaultConfig returns the layout written by the serial and Barnes-Hut
// simulators: one header line, then outer_step,body_id,timestep,x,y,vx,vy,mass.
func DefaultConfig() *Config {
	return &Config{
		HeaderLines: DefaultHeaderLines,
		Columns:     ColumnsFromParser(parser.DefaultColumns()),
		Alignment:   DefaultAlignment,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if align := os.Getenv(EnvAlignment); align != "" {
		c.Alignment = align
	}
}
