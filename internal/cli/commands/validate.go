package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/nbodydiff/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a layout configuration file",
		Long: `Validate an nbodydiff layout configuration file without comparing any logs.

Checks:
  - YAML syntax
  - header_lines is not negative
  - Column positions are not negative and not shared
  - alignment is index or key (after NBODYDIFF_ALIGN is applied)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	cols := cfg.Columns
	_, _ = fmt.Fprintf(out, "\nConfiguration valid!\n")
	if cfg.Description != "" {
		_, _ = fmt.Fprintf(out, "  %s\n", cfg.Description)
	}
	_, _ = fmt.Fprintf(out, "  Header lines: %d\n", cfg.HeaderLines)
	_, _ = fmt.Fprintf(out, "  Alignment:    %s\n", cfg.Alignment)
	_, _ = fmt.Fprintf(out, "\nColumns:\n")
	_, _ = fmt.Fprintf(out, "  body_id:  %d\n", cols.BodyID)
	_, _ = fmt.Fprintf(out, "  timestep: %d\n", cols.Timestep)
	_, _ = fmt.Fprintf(out, "  x:        %d\n", cols.X)
	_, _ = fmt.Fprintf(out, "  y:        %d\n", cols.Y)
	_, _ = fmt.Fprintf(out, "  vx:       %d\n", cols.VX)
	_, _ = fmt.Fprintf(out, "  vy:       %d\n", cols.VY)
	_, _ = fmt.Fprintf(out, "\nData lines need at least %d fields.\n", cols.ParserColumns().MinFields())

	return nil
}
