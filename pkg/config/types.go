// Package config provides layout configuration loading and validation for nbodydiff.
package config

import (
	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Description is free text shown by the validate command.
	Description string `yaml:"description,omitempty"`

	// HeaderLines is the number of leading lines skipped in each file.
	HeaderLines int `yaml:"header_lines"`

	// Columns maps row fields to 0-based CSV column positions.
	Columns ColumnsConfig `yaml:"columns"`

	// Alignment selects how rows are paired: index or key.
	Alignment string `yaml:"alignment"`
}

// ColumnsConfig holds the 0-based column of each captured field.
// Fields left out of the YAML keep their default position.
type ColumnsConfig struct {
	BodyID   int `yaml:"body_id"`
	Timestep int `yaml:"timestep"`
	X        int `yaml:"x"`
	Y        int `yaml:"y"`
	VX       int `yaml:"vx"`
	VY       int `yaml:"vy"`
}

// ParserColumns converts the column configuration for the parser.
func (c ColumnsConfig) ParserColumns() parser.Columns {
	return parser.Columns{
		BodyID:   c.BodyID,
		Timestep: c.Timestep,
		X:        c.X,
		Y:        c.Y,
		VX:       c.VX,
		VY:       c.VY,
	}
}

// ColumnsFromParser converts parser columns to their configuration form.
func ColumnsFromParser(c parser.Columns) ColumnsConfig {
	return ColumnsConfig{
		BodyID:   c.BodyID,
		Timestep: c.Timestep,
		X:        c.X,
		Y:        c.Y,
		VX:       c.VX,
		VY:       c.VY,
	}
}
