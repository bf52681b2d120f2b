package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
	"github.com/ccollicutt/nbodydiff/pkg/config"
	"github.com/ccollicutt/nbodydiff/pkg/output"
	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// UsageError marks a command line the root command rejected before
// running, such as the wrong number of log files.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// CompareOptions holds command-line options for comparing two logs.
type CompareOptions struct {
	ConfigFile string
	Output     string
	Verbose    bool
	Align      string
}

// BindCompare makes cmd compare a serial log against a Barnes-Hut log given
// as its two positional arguments.
func BindCompare(cmd *cobra.Command) {
	opts := &CompareOptions{}

	cmd.Args = func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, args, opts)
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Layout config file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show the values of both sides for each row")
	cmd.Flags().StringVar(&opts.Align, "align", "", "Row alignment (index|key), overrides config")
}

func runCompare(cmd *cobra.Command, args []string, opts *CompareOptions) error {
	serialPath, bhPath := args[0], args[1]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	alignment := cfg.Alignment
	if opts.Align != "" {
		alignment = opts.Align
	}
	align, err := compare.ParseAlignment(alignment)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
	})
	if err != nil {
		return err
	}

	columns := cfg.Columns.ParserColumns()

	serial, err := parser.Load(ctx, serialPath, columns, cfg.HeaderLines)
	if err != nil {
		return fmt.Errorf("reading serial data: %w", err)
	}

	bh, err := parser.Load(ctx, bhPath, columns, cfg.HeaderLines)
	if err != nil {
		return fmt.Errorf("reading Barnes-Hut data: %w", err)
	}

	c, err := compare.New(compare.WithAlignment(align))
	if err != nil {
		return err
	}

	result, err := c.Compare(ctx, serial, bh)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	report := output.NewReport(result, opts.ConfigFile)

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	return nil
}
